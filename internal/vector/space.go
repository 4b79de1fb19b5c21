package vector

import (
	"math"
	"sort"

	"github.com/dgallion1/docrank/internal/text"
)

// Space is a fitted TF-IDF model: one vocabulary and one IDF table shared by
// every section vector and the query vector. Fitting is sequential;
// Vectorize and Query are read-only afterwards and safe to call
// concurrently.
type Space struct {
	idf  map[string]float64
	docs int
	tok  text.Tokenizer
}

// Fit builds the vocabulary and IDF table from the document bodies and the
// query keyword set. IDF(term) = ln(n / (1 + docFreq)), so keywords absent
// from every document carry the maximal value ln(n).
func Fit(docs []string, keywords map[string]float64, tok text.Tokenizer) *Space {
	sp := &Space{idf: make(map[string]float64), docs: len(docs), tok: tok}

	df := make(map[string]int)
	for _, doc := range docs {
		for tokn := range text.Set(tok.Tokens(doc)) {
			df[tokn]++
		}
	}
	for kw := range keywords {
		if _, ok := df[kw]; !ok {
			df[kw] = 0
		}
	}

	if sp.docs == 0 {
		return sp
	}
	n := float64(sp.docs)
	for term, freq := range df {
		sp.idf[term] = math.Log(n / float64(1+freq))
	}
	return sp
}

// Docs returns the number of documents the space was fitted on.
func (sp *Space) Docs() int { return sp.docs }

// IDF returns the fitted IDF for a term, 0 for unknown terms.
func (sp *Space) IDF(term string) float64 { return sp.idf[term] }

// Vectorize builds the normalized TF-IDF vector for one document body.
// Tokens outside the fitted vocabulary are ignored. Terms are sorted before
// normalization so the norm is summed in a fixed order.
func (sp *Space) Vectorize(body string) Vector {
	tokens := sp.tok.Tokens(body)
	if len(tokens) == 0 || len(sp.idf) == 0 {
		return nil
	}
	counts := make(map[string]int, len(tokens))
	for _, tokn := range tokens {
		counts[tokn]++
	}
	total := float64(len(tokens))

	v := make(Vector, 0, len(counts))
	for tokn, count := range counts {
		idf, ok := sp.idf[tokn]
		if !ok {
			continue
		}
		v = append(v, Term{Token: tokn, Weight: float64(count) / total * idf})
	}
	sort.Slice(v, func(i, j int) bool { return v[i].Token < v[j].Token })
	v.normalize()
	return v
}

// Query builds the normalized query vector, using keyword weights in place
// of raw term counts over the same vocabulary and IDF table.
func (sp *Space) Query(keywords map[string]float64) Vector {
	if len(sp.idf) == 0 {
		return nil
	}
	v := make(Vector, 0, len(keywords))
	for kw, w := range keywords {
		idf, ok := sp.idf[kw]
		if !ok {
			continue
		}
		v = append(v, Term{Token: kw, Weight: w * idf})
	}
	sort.Slice(v, func(i, j int) bool { return v[i].Token < v[j].Token })
	v.normalize()
	return v
}
