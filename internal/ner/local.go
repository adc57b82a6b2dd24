package ner

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/nidaan-ai/nidaan/internal/logger"
	"github.com/nidaan-ai/nidaan/internal/privacy"
)

// Label order must match the classification head of the bundled model.
var localLabels = []string{
	"O",
	"NAME",
	"ADDRESS",
	"PHONE",
	"EMAIL",
	"DATE",
	"HOSPITAL_ID",
	"ORGANIZATION",
}

const (
	unkTokenID = 0
	maxTokens  = 512
)

// LocalDetector runs a local token-classification model. The model is
// only available under the 'onnx' build tag; default builds get a nil
// backend and refuse to construct.
type LocalDetector struct {
	backend ModelBackend
	vocab   map[string]int64
	logger  *logger.Logger
}

// NewLocalDetector loads the vocabulary and initializes the model
// backend for the current build.
func NewLocalDetector(modelPath, vocabPath string, log *logger.Logger) (*LocalDetector, error) {
	backend := NewModelBackend(log.Logger, modelPath)
	if backend == nil {
		return nil, fmt.Errorf("local ner backend unavailable in this build (requires onnx)")
	}

	vocab, err := loadVocab(vocabPath)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to load vocab: %w", err)
	}

	log.WithComponent("ner").Info("Local NER detector initialized",
		zap.String("model", modelPath),
		zap.Int("vocab_size", len(vocab)))

	return &LocalDetector{backend: backend, vocab: vocab, logger: log.WithComponent("ner")}, nil
}

// Detect classifies each word and groups consecutive words with the
// same label into entities. The language argument is ignored; the
// bundled model is monolingual.
func (d *LocalDetector) Detect(ctx context.Context, text, language string) ([]privacy.Entity, error) {
	words := tokenizeWords(text)
	if len(words) == 0 {
		return nil, nil
	}
	if len(words) > maxTokens {
		words = words[:maxTokens]
	}

	inputIDs := make([]int64, len(words))
	attentionMask := make([]int64, len(words))
	for i, w := range words {
		id, ok := d.vocab[strings.ToLower(w.text)]
		if !ok {
			id = unkTokenID
		}
		inputIDs[i] = id
		attentionMask[i] = 1
	}

	logits, err := d.backend.ClassifyTokens(ctx, inputIDs, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("local ner inference failed: %w", err)
	}
	if len(logits) < len(words) {
		return nil, fmt.Errorf("model returned %d token outputs for %d tokens", len(logits), len(words))
	}

	var entities []privacy.Entity
	for i := 0; i < len(words); {
		label, score := argmaxSoftmax(logits[i])
		if label == 0 {
			i++
			continue
		}
		// Extend over the run of words sharing this label.
		start, end := words[i].start, words[i].end
		total, n := score, 1
		j := i + 1
		for j < len(words) {
			l, s := argmaxSoftmax(logits[j])
			if l != label {
				break
			}
			end = words[j].end
			total += s
			n++
			j++
		}
		entities = append(entities, privacy.Entity{
			Type:   localLabels[label],
			Text:   text[start:end],
			Start:  start,
			End:    end,
			Score:  total / float64(n),
			Source: privacy.SourceModel,
		})
		i = j
	}
	return entities, nil
}

// Close releases the model backend.
func (d *LocalDetector) Close() error {
	return d.backend.Close()
}

type word struct {
	text  string
	start int
	end   int
}

// tokenizeWords splits text on whitespace preserving byte offsets.
func tokenizeWords(text string) []word {
	var words []word
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, word{text: text[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, word{text: text[start:], start: start, end: len(text)})
	}
	return words
}

// argmaxSoftmax returns the winning label index and its softmax
// probability.
func argmaxSoftmax(logits []float32) (int, float64) {
	if len(logits) == 0 {
		return 0, 0
	}
	best := 0
	for i, v := range logits {
		if v > logits[best] {
			best = i
		}
	}
	var sum float64
	for _, v := range logits {
		sum += math.Exp(float64(v - logits[best]))
	}
	if best >= len(localLabels) {
		return 0, 0
	}
	return best, 1.0 / sum
}

// loadVocab reads a vocabulary file with one token per line; line
// number is the token ID.
func loadVocab(path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		token := strings.TrimSpace(scanner.Text())
		if token != "" {
			vocab[token] = id
		}
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("empty vocabulary: %s", path)
	}
	return vocab, nil
}
