package chunker

import (
	"strings"
	"unicode"

	"github.com/dgallion1/docprep/internal/structure"
)

// Config controls segmentation behavior. Sizes are in characters (runes).
type Config struct {
	ChunkSize    int // maximum chunk size, including carried overlap
	ChunkOverlap int // trailing characters repeated at a forced break
	MinChunk     int // minimum size before a header boundary closes a chunk
}

// DefaultConfig returns sensible defaults for retrieval-sized chunks.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    800,
		ChunkOverlap: 50,
		MinChunk:     100,
	}
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 800
	}
	if c.ChunkOverlap < 0 {
		c.ChunkOverlap = 0
	}
	if c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = c.ChunkSize / 4
	}
	if c.MinChunk <= 0 {
		c.MinChunk = 100
	}
	return c
}

// Chunk is a bounded contiguous slice of canonical text, tagged with its
// position and the header trail enclosing it.
type Chunk struct {
	Content string `json:"chunk_text"`
	Index   int    `json:"chunk_index"`
	// CharStart/CharEnd are rune offsets of Content within the source
	// text, including any carried overlap. Both increase strictly across
	// the sequence; consecutive spans overlap by at most ChunkOverlap.
	CharStart int `json:"start_position"`
	CharEnd   int `json:"end_position"`
	// OverlapWithPrev counts the leading runes of Content that repeat the
	// end of the previous chunk.
	OverlapWithPrev int `json:"overlap_with_previous"`
	// Context is the enclosing header trail at the chunk's start.
	Context []string `json:"header_context,omitempty"`
}

// Segment partitions text into bounded chunks guided by structural
// metadata. Chunks close early at header boundaries once MinChunk is
// accumulated; otherwise a boundary is forced at the nearest whitespace
// before ChunkSize, carrying ChunkOverlap trailing characters into the next
// chunk. The final remainder always becomes the last chunk.
//
// Deterministic for a given (text, meta, cfg): segmenting twice yields
// identical sequences.
func Segment(text string, meta *structure.Metadata, cfg Config) []Chunk {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if meta == nil {
		meta = structure.Extract(text)
	}

	headersByLine := make(map[int]structure.Header, len(meta.Headers))
	for _, h := range meta.Headers {
		headersByLine[h.Line] = h
	}

	runes := []rune(text)

	var (
		chunks  []Chunk
		trail   headerTrail
		start   int // rune offset where the current chunk's new text begins
		carried int // runes repeated from the previous chunk
		ctx     []string
	)

	flush := func(end, nextCarried int) {
		cs := start - carried
		chunks = append(chunks, Chunk{
			Content:         string(runes[cs:end]),
			Index:           len(chunks),
			CharStart:       cs,
			CharEnd:         end,
			OverlapWithPrev: carried,
			Context:         ctx,
		})
		if nextCarried > end-cs {
			nextCarried = end - cs
		}
		start = end
		carried = nextCarried
		ctx = trail.labels()
	}

	i := 0
	lineNum := 0
	for i < len(runes) {
		lineNum++
		j := i
		for j < len(runes) && runes[j] != '\n' {
			j++
		}
		if j < len(runes) {
			j++ // keep the newline with its line
		}

		if h, ok := headersByLine[lineNum]; ok {
			if i > start && (i-start)+carried >= cfg.MinChunk {
				flush(i, 0)
			}
			trail.push(h)
			if start == i {
				// The chunk opens at this header, so it belongs to
				// the section the header introduces.
				ctx = trail.labels()
			}
		}

		for (j-start)+carried > cfg.ChunkSize {
			limit := start + cfg.ChunkSize - carried
			flush(wordBoundary(runes, start, limit), cfg.ChunkOverlap)
		}

		i = j
	}

	if start < len(runes) || len(chunks) == 0 {
		flush(len(runes), 0)
	}

	return chunks
}

// wordBoundary returns the break position in (start, limit]: just after the
// last whitespace before limit, or limit itself when the span is one
// unbroken token.
func wordBoundary(runes []rune, start, limit int) int {
	for w := limit - 1; w > start; w-- {
		if unicode.IsSpace(runes[w]) {
			return w + 1
		}
	}
	return limit
}

// headerTrail tracks the most recent header per level. A header of level L
// replaces every tracked header of level >= L, so enclosing sections
// persist until superseded.
type headerTrail []structure.Header

func (t *headerTrail) push(h structure.Header) {
	keep := (*t)[:0]
	for _, e := range *t {
		if e.Level < h.Level {
			keep = append(keep, e)
		}
	}
	*t = append(keep, h)
}

func (t headerTrail) labels() []string {
	if len(t) == 0 {
		return nil
	}
	out := make([]string, len(t))
	for i, h := range t {
		out[i] = h.Text
	}
	return out
}
