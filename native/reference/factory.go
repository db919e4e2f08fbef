package reference

import (
	"strconv"
	"strings"

	"github.com/hupe1980/go-faiss/native"
)

// parse builds an index from a faiss-style factory description.
//
// Supported forms:
//
//	Flat
//	IVF<nlist>,Flat
//	IDMap,<description>
func (e *Engine) parse(d int, description string, metric native.MetricType) (index, error) {
	desc := strings.TrimSpace(description)

	if rest, ok := strings.CutPrefix(desc, "IDMap,"); ok {
		sub, err := e.parse(d, rest, metric)
		if err != nil {
			return nil, err
		}
		return &idMapIndex{
			sub:       sub,
			subHandle: e.register(sub),
			ownFields: true,
		}, nil
	}

	if desc == "Flat" {
		return newFlat(d, metric)
	}

	if rest, ok := strings.CutPrefix(desc, "IVF"); ok {
		n, coarse, found := strings.Cut(rest, ",")
		if found && coarse == "Flat" {
			nlist, err := strconv.Atoi(n)
			if err == nil {
				return newIVF(d, nlist, metric)
			}
		}
	}

	return nil, faissError("could not parse index string %s", description)
}
