package retrieval

import (
	"os"
	"path/filepath"
	"testing"
)

func testCorpus() []Snippet {
	return []Snippet{
		{Text: "long run pacing for marathon training", ChunkType: "example", TopicPath: "training.pacing"},
		{Text: "negative splits during marathon racing", ChunkType: "example", TopicPath: "training.pacing"},
		{Text: "carb loading before race day", ChunkType: "example", TopicPath: "nutrition"},
		{Text: "marathon pacing theory citation", ChunkType: "reference", TopicPath: "training.pacing"},
	}
}

func TestSearchRanksByWordOverlap(t *testing.T) {
	x := Build(testCorpus())

	got := x.Search("marathon pacing advice", 3)
	if len(got) == 0 {
		t.Fatalf("no results for overlapping query")
	}
	// Both pacing examples share a topic path and merge into one result.
	if got[0] != "long run pacing for marathon training. negative splits during marathon racing" {
		t.Fatalf("top result = %q", got[0])
	}
}

func TestSearchExcludesNonExampleChunks(t *testing.T) {
	x := Build(testCorpus())

	for _, r := range x.Search("citation theory", 5) {
		if r == "marathon pacing theory citation" {
			t.Fatalf("reference chunk leaked into results")
		}
	}
}

func TestSearchTopKLimit(t *testing.T) {
	x := Build(testCorpus())

	got := x.Search("marathon race carb pacing", 1)
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
}

func TestSearchNoOverlap(t *testing.T) {
	x := Build(testCorpus())
	if got := x.Search("swimming butterfly technique", 3); got != nil {
		t.Fatalf("results = %v, want none", got)
	}
	if got := x.Search("marathon", 0); got != nil {
		t.Fatalf("topK=0 results = %v, want none", got)
	}
}

func TestSearchDuplicateQueryWordsCountOnce(t *testing.T) {
	x := Build([]Snippet{
		{Text: "pacing", ChunkType: "example", TopicPath: "a"},
		{Text: "pacing splits", ChunkType: "example", TopicPath: "b"},
	})

	got := x.Search("pacing pacing pacing splits", 2)
	if len(got) != 2 {
		t.Fatalf("results = %v, want 2", got)
	}
	// Two distinct shared words beat one repeated word.
	if got[0] != "pacing splits" {
		t.Fatalf("top result = %q, want the two-word match", got[0])
	}
}

func TestLoadMissingFileYieldsEmptyIndex(t *testing.T) {
	x, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if got := x.Search("anything", 3); got != nil {
		t.Fatalf("empty index returned results: %v", got)
	}
}

func TestLoadParsesCorpusFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge_metadata.json")
	payload := `[{"text": "easy runs build aerobic base", "chunk_type": "example", "topic_path": "training.base"}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}

	x, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := x.Search("aerobic base", 3)
	if len(got) != 1 || got[0] != "easy runs build aerobic base" {
		t.Fatalf("results = %v", got)
	}
}
