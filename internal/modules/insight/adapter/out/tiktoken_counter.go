package out

import (
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"

	insightout "bjjflow/internal/modules/insight/port/out"
)

const DefaultEncoding = "cl100k_base"

// TiktokenCounter counts prompt tokens with a BPE encoding, loaded on first
// use. When the encoding cannot be loaded (offline, no cache) it falls back
// to roughly four characters per token.
type TiktokenCounter struct {
	encoding string
	once     sync.Once
	enc      *tiktoken.Tiktoken
}

func NewTiktokenCounter(encoding string) insightout.TokenCounter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &TiktokenCounter{encoding: encoding}
}

func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding(c.encoding)
		if err == nil {
			c.enc = enc
		}
	})
	if c.enc == nil {
		return EstimateTokens(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (utf8.RuneCountInString(text) + 3) / 4
}
