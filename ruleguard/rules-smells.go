package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guards with the same return can be merged with ||
	//   if a { return err }
	//   if b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic or reducing algorithmic complexity`)
}

// outboundHTTP keeps every call to an LLM or TTS backend cancellable and time-bounded.
func outboundHTTP(m dsl.Matcher) {
	m.Match(`http.Get($*_)`, `http.Post($*_)`, `http.PostForm($*_)`, `http.Head($*_)`).
		Where(!m.File().Name.Matches(`_test\.go$`)).
		Report(`package-level http helpers use DefaultClient with no timeout; build a request with http.NewRequestWithContext`)

	m.Match(`http.NewRequest($method, $url, $body)`).
		Where(!m.File().Name.Matches(`_test\.go$`)).
		Report(`outbound requests must carry a context`).
		Suggest(`http.NewRequestWithContext(ctx, $method, $url, $body)`)

	m.Match(`http.DefaultClient.Do($req)`).
		Where(!m.File().Name.Matches(`_test\.go$`)).
		Report(`use the client's configured *http.Client instead of DefaultClient`)
}
