// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevencode/deepthink/pkg/types"
)

const duckDuckGoFixture = `{
  "Heading": "Quantum computing",
  "Abstract": "A quantum computer is a computer that exploits quantum mechanical phenomena.",
  "AbstractURL": "https://en.wikipedia.org/wiki/Quantum_computing",
  "RelatedTopics": [
    {"Text": "Qubit - The basic unit of quantum information.", "FirstURL": "https://duckduckgo.com/Qubit",
     "Result": "<a href=\"https://duckduckgo.com/Qubit\">Qubit</a>The basic unit of quantum information."},
    {"Text": "Quantum supremacy - A milestone.", "FirstURL": "https://duckduckgo.com/Quantum_supremacy", "Result": ""},
    {"Text": "", "FirstURL": "https://duckduckgo.com/Empty"},
    {"Name": "Physics", "Topics": [
      {"Text": "Superposition - A principle.", "FirstURL": "https://duckduckgo.com/Superposition"},
      {"Text": "Entanglement - Another.", "FirstURL": "https://duckduckgo.com/Entanglement"}
    ]}
  ]
}`

func newDuckDuckGoServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	orig := duckDuckGoAPIBase
	duckDuckGoAPIBase = srv.URL + "/"
	t.Cleanup(func() { duckDuckGoAPIBase = orig })
}

func TestDuckDuckGoSearch(t *testing.T) {
	var gotQuery, gotUA string
	newDuckDuckGoServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("no_html"))
		assert.Equal(t, "1", r.URL.Query().Get("skip_disambig"))
		w.Header().Set("Content-Type", "application/x-javascript")
		_, _ = w.Write([]byte(duckDuckGoFixture))
	})

	d := NewDuckDuckGo(types.SearchConfig{UserAgent: "test/0.1", PerProvider: 3}, nil)
	results := d.Search(context.Background(), "quantum computing")

	assert.Equal(t, "quantum computing", gotQuery)
	assert.Equal(t, "test/0.1", gotUA)

	// Abstract plus three topics; the empty-text topic is skipped and the
	// category group is flattened.
	require.Len(t, results, 4)
	assert.Equal(t, "Quantum computing", results[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Quantum_computing", results[0].URL)
	assert.Equal(t, "Qubit", results[1].Title)
	assert.Equal(t, "Quantum supremacy", results[2].Title)
	assert.Equal(t, "Superposition", results[3].Title)
	for _, r := range results {
		assert.Equal(t, "DuckDuckGo", r.Source)
		assert.NotEmpty(t, r.URL)
	}
}

func TestDuckDuckGoAbstractWithoutURLSkipped(t *testing.T) {
	newDuckDuckGoServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Heading":"X","Abstract":"text","AbstractURL":"","RelatedTopics":[]}`))
	})
	results := NewDuckDuckGo(types.SearchConfig{}, nil).Search(context.Background(), "x")
	assert.Empty(t, results)
}

func TestDuckDuckGoDefaultAbstractTitle(t *testing.T) {
	newDuckDuckGoServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Abstract":"text","AbstractURL":"https://x","RelatedTopics":[]}`))
	})
	results := NewDuckDuckGo(types.SearchConfig{}, nil).Search(context.Background(), "x")
	require.Len(t, results, 1)
	assert.Equal(t, duckDuckGoDefaultTitle, results[0].Title)
}

func TestDuckDuckGoFailuresReturnEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newDuckDuckGoServer(t, tt.handler)
			d := NewDuckDuckGo(types.SearchConfig{}, nil)

			assert.Empty(t, d.Search(context.Background(), "q"))
			_, err := d.search(context.Background(), "q")
			assert.Error(t, err)
		})
	}
}

func TestDuckDuckGoUnreachable(t *testing.T) {
	orig := duckDuckGoAPIBase
	duckDuckGoAPIBase = "http://127.0.0.1:1/"
	t.Cleanup(func() { duckDuckGoAPIBase = orig })

	assert.Empty(t, NewDuckDuckGo(types.SearchConfig{}, nil).Search(context.Background(), "q"))
}

func TestTopicTitle(t *testing.T) {
	tests := []struct {
		name  string
		topic duckDuckGoTopic
		want  string
	}{
		{"anchor", duckDuckGoTopic{Text: "A - b", Result: `<a href="x">Anchor</a>rest`}, "Anchor"},
		{"split", duckDuckGoTopic{Text: "Head - tail"}, "Head"},
		{"no separator", duckDuckGoTopic{Text: "Whole text"}, "Whole text"},
		{"fallback", duckDuckGoTopic{Text: " - tail"}, duckDuckGoTopicTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, topicTitle(tt.topic))
		})
	}
}
