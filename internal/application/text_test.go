package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandTokens(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
		want []string
	}{
		{name: "plain", body: "get 2", want: []string{"get", "2"}},
		{name: "mention markup", body: `<p><span class="h-card"><a href="https://mozilla.social/@bot" class="u-url mention">@<span>bot</span></a></span> show 5</p>`, want: []string{"show", "5"}},
		{name: "line breaks", body: "<p>add<br>https://example.com/a</p>", want: []string{"add", "https://example.com/a"}},
		{name: "entities", body: "<p>add https://example.com/?a=1&amp;b=2</p>", want: []string{"add", "https://example.com/?a=1&b=2"}},
		{name: "extra whitespace", body: "  help \n\t ", want: []string{"help"}},
		{name: "only mention", body: "@bot", want: []string{}},
		{name: "empty", body: "", want: nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := commandTokens(tc.body)
			if len(tc.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
