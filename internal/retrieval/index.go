package retrieval

import (
	"encoding/json"
	"hash/fnv"
	"os"
	"sort"
	"strings"
	"unicode"
)

/*
Package retrieval scores knowledge snippets against a query by word overlap.

Rules:
- Keep only ident-like words: start with a Unicode letter or '_' and continue
  with letter/digit/'_'; everything else is a delimiter.
- Matching is case-insensitive; duplicate query words count once.
- Example snippets sharing a topic path are merged into one result.
No embeddings are computed; an empty result is valid, not an error.
*/

// Snippet is one entry of the knowledge corpus metadata file.
type Snippet struct {
	Text      string `json:"text"`
	ChunkType string `json:"chunk_type"`
	TopicPath string `json:"topic_path"`
}

// Index holds the corpus plus a hash-based posting map from word to snippet.
type Index struct {
	snippets []Snippet
	post     map[uint64][]int // word hash -> snippet indices
}

// Load reads the corpus metadata file. A missing file yields an empty index;
// retrieval is optional enrichment, never a startup failure.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{post: make(map[uint64][]int)}, nil
		}
		return nil, err
	}
	var snippets []Snippet
	if err := json.Unmarshal(data, &snippets); err != nil {
		return nil, err
	}
	return Build(snippets), nil
}

// Build indexes the given snippets.
func Build(snippets []Snippet) *Index {
	x := &Index{
		snippets: snippets,
		post:     make(map[uint64][]int),
	}
	for i, sn := range snippets {
		seen := make(map[uint64]bool)
		for _, w := range tokenize(sn.Text) {
			key := hashWord(w)
			if seen[key] {
				continue
			}
			seen[key] = true
			x.post[key] = append(x.post[key], i)
		}
	}
	return x
}

// Search returns up to topK merged snippet groups ranked by shared-word
// count with the query. Only "example" chunks participate; groups sharing a
// topic path are joined into a single result.
func (x *Index) Search(query string, topK int) []string {
	if x == nil || len(x.snippets) == 0 || topK <= 0 {
		return nil
	}

	scores := make(map[int]int)
	seen := make(map[uint64]bool)
	for _, w := range tokenize(query) {
		key := hashWord(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		for _, i := range x.post[key] {
			scores[i]++
		}
	}
	if len(scores) == 0 {
		return nil
	}

	ranked := make([]int, 0, len(scores))
	for i := range scores {
		if x.snippets[i].ChunkType == "example" {
			ranked = append(ranked, i)
		}
	}
	sort.Slice(ranked, func(a, b int) bool {
		if scores[ranked[a]] != scores[ranked[b]] {
			return scores[ranked[a]] > scores[ranked[b]]
		}
		return ranked[a] < ranked[b]
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	// Merge hits within the same topic path, preserving rank order.
	order := make([]string, 0, len(ranked))
	grouped := make(map[string][]string)
	for _, i := range ranked {
		topic := x.snippets[i].TopicPath
		if topic == "" {
			topic = "unknown_topic"
		}
		if _, ok := grouped[topic]; !ok {
			order = append(order, topic)
		}
		grouped[topic] = append(grouped[topic], x.snippets[i].Text)
	}
	out := make([]string, 0, len(order))
	for _, topic := range order {
		out = append(out, strings.Join(grouped[topic], ". "))
	}
	return out
}

func tokenize(src string) []string {
	isStart := func(r rune) bool { return r == '_' || unicode.IsLetter(r) }
	isCont := func(r rune) bool { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

	var words []string
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		if !isStart(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && isCont(runes[i]) {
			i++
		}
		words = append(words, strings.ToLower(string(runes[start:i])))
	}
	return words
}

func hashWord(word string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(word))
	return h.Sum64()
}
