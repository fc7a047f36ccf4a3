package retrieval

import (
	"math"
	"regexp"
	"strings"
)

// tokenPattern accepts runs of two or more word characters, matching the
// conventional vectorizer token definition.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// tokenize lowercases the text, extracts word tokens, drops stop words, and
// appends bigrams formed from the surviving unigram sequence.
func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	unigrams := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		unigrams = append(unigrams, tok)
	}

	terms := make([]string, 0, 2*len(unigrams))
	terms = append(terms, unigrams...)
	for i := 1; i < len(unigrams); i++ {
		terms = append(terms, unigrams[i-1]+" "+unigrams[i])
	}
	return terms
}

// docVector is a sparse term-weight vector keyed by vocabulary index.
type docVector map[int]float64

// fitTransform builds a TF-IDF representation over the documents: raw term
// frequency times smoothed inverse document frequency, L2-normalized per
// document. The vocabulary and document frequencies cover every input
// document, including any query appended by the caller.
func fitTransform(docs []string) []docVector {
	tokenized := make([][]string, len(docs))
	vocab := make(map[string]int)
	df := make([]int, 0)

	for i, doc := range docs {
		tokenized[i] = tokenize(doc)
		seen := make(map[int]struct{})
		for _, term := range tokenized[i] {
			idx, ok := vocab[term]
			if !ok {
				idx = len(vocab)
				vocab[term] = idx
				df = append(df, 0)
			}
			if _, dup := seen[idx]; !dup {
				df[idx]++
				seen[idx] = struct{}{}
			}
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(df))
	for i, count := range df {
		idf[i] = math.Log((1+n)/(1+float64(count))) + 1
	}

	vectors := make([]docVector, len(docs))
	for i, terms := range tokenized {
		vec := make(docVector, len(terms))
		for _, term := range terms {
			idx := vocab[term]
			vec[idx] += idf[idx]
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors
}

// normalize scales the vector to unit L2 length in place.
func normalize(vec docVector) {
	sum := 0.0
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for idx, w := range vec {
		vec[idx] = w / norm
	}
}

// cosine is the dot product of two unit-length sparse vectors.
func cosine(a, b docVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	sum := 0.0
	for idx, w := range a {
		sum += w * b[idx]
	}
	return sum
}
