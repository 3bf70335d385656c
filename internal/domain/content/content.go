// Package content serves the portal's markdown articles.
//
// Layout: <dir>/<section>/<name>.md or .mdx, each with an optional YAML front-matter block.
// The slug of an article is "<section>/<name>". Bodies are rendered with goldmark and the
// resulting HTML is sanitized with bluemonday's UGC policy before it leaves this package.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrTopicNotFound covers unknown slugs and slugs rejected by the path checks.
var ErrTopicNotFound = errors.New("Topic not found") //nolint:staticcheck

// Topic is the listing metadata of one article.
type Topic struct {
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Section       string   `json:"section"`
	Summary       string   `json:"summary"`
	Difficulty    string   `json:"difficulty,omitempty"`
	RelatedTopics []string `json:"relatedTopics,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	UpdatedAt     string   `json:"updatedAt"`
}

// Article is a topic plus its sanitized HTML body.
type Article struct {
	Topic   Topic  `json:"topic"`
	Content string `json:"content"`
}

type frontMatter struct {
	Title         string   `yaml:"title"`
	Summary       string   `yaml:"summary"`
	Difficulty    string   `yaml:"difficulty"`
	RelatedTopics []string `yaml:"relatedTopics"`
	Tags          []string `yaml:"tags"`
	UpdatedAt     string   `yaml:"updatedAt"`
}

// Store reads articles from a directory on every call; there is no cache.
type Store struct {
	dir      string
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	now      func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{
		dir:      dir,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
		now:      time.Now,
	}
}

// AllTopics lists every article sorted by slug. A missing content dir yields an empty list.
func (s *Store) AllTopics() ([]Topic, error) {
	topics := []Topic{}
	sections, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return topics, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	for _, section := range sections {
		if !section.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(s.dir, section.Name()))
		if err != nil {
			return nil, fmt.Errorf("read section %s: %w", section.Name(), err)
		}
		for _, f := range files {
			name, ok := articleName(f.Name())
			if f.IsDir() || !ok {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(s.dir, section.Name(), f.Name()))
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f.Name(), err)
			}
			meta, _, err := splitFrontMatter(raw)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", section.Name(), f.Name(), err)
			}
			topics = append(topics, s.topic(section.Name()+"/"+name, meta))
		}
	}
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Slug < topics[j].Slug })
	return dedupe(topics), nil
}

// TopicBySlug loads one article. .mdx wins over .md when both exist.
func (s *Store) TopicBySlug(slug string) (*Article, error) {
	if !IsValidSlug(slug) {
		return nil, ErrTopicNotFound
	}
	path, err := s.resolve(slug)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", slug, err)
	}
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", slug, err)
	}

	html, err := s.render(body)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", slug, err)
	}
	return &Article{Topic: s.topic(slug, meta), Content: html}, nil
}

// IsValidSlug rejects empty slugs, "..", a leading slash, backslashes and NUL bytes.
func IsValidSlug(slug string) bool {
	switch {
	case slug == "",
		strings.Contains(slug, ".."),
		strings.HasPrefix(slug, "/"),
		strings.Contains(slug, `\`),
		strings.Contains(slug, "\x00"):
		return false
	}
	return true
}

// resolve maps a slug to an existing file that lies strictly inside the content dir.
func (s *Store) resolve(slug string) (string, error) {
	root, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("resolve content dir: %w", err)
	}
	for _, ext := range []string{".mdx", ".md"} {
		candidate, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(slug)+ext))
		if err != nil || !strings.HasPrefix(candidate, root+string(filepath.Separator)) {
			return "", ErrTopicNotFound
		}
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", ErrTopicNotFound
}

func (s *Store) render(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert(body, &buf); err != nil {
		return "", err
	}
	return s.policy.Sanitize(buf.String()), nil
}

func (s *Store) topic(slug string, meta frontMatter) Topic {
	section, _, _ := strings.Cut(slug, "/")
	t := Topic{
		Slug:          slug,
		Title:         meta.Title,
		Section:       section,
		Summary:       meta.Summary,
		Difficulty:    meta.Difficulty,
		RelatedTopics: meta.RelatedTopics,
		Tags:          meta.Tags,
		UpdatedAt:     meta.UpdatedAt,
	}
	if t.Title == "" {
		t.Title = slug
	}
	if t.UpdatedAt == "" {
		t.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	}
	return t
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func articleName(file string) (string, bool) {
	for _, ext := range []string{".mdx", ".md"} {
		if strings.HasSuffix(file, ext) {
			return strings.TrimSuffix(file, ext), true
		}
	}
	return "", false
}

// dedupe keeps one entry per slug when both name.md and name.mdx exist. Input is stably
// sorted and os.ReadDir lists ".md" before ".mdx", so keeping the last entry prefers .mdx.
func dedupe(topics []Topic) []Topic {
	out := topics[:0]
	for i, t := range topics {
		if i+1 < len(topics) && topics[i+1].Slug == t.Slug {
			continue
		}
		out = append(out, t)
	}
	return out
}

// splitFrontMatter separates a leading "---" YAML block from the markdown body.
// Files without a block have empty metadata.
func splitFrontMatter(raw []byte) (frontMatter, []byte, error) {
	var meta frontMatter
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	first, rest, found := bytes.Cut(raw, []byte("\n"))
	if !found || string(bytes.TrimRight(first, " \r")) != "---" {
		return meta, raw, nil
	}

	var block []byte
	for {
		line, tail, more := bytes.Cut(rest, []byte("\n"))
		if string(bytes.TrimRight(line, " \r")) == "---" {
			if err := yaml.Unmarshal(block, &meta); err != nil {
				return meta, nil, fmt.Errorf("parse front matter: %w", err)
			}
			return meta, tail, nil
		}
		if !more {
			return meta, nil, errors.New("unterminated front matter")
		}
		block = append(block, line...)
		block = append(block, '\n')
		rest = tail
	}
}
