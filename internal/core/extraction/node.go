package extraction

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Kind discriminates the three shapes a raw extraction value can take.
type Kind int

const (
	KindScalar Kind = iota
	KindMapping
	KindSequence
)

// Node is a tagged-variant view over one value of a raw extraction tree.
// Upstream extractors emit deeply nested JSON with no guaranteed schema;
// Node keeps the traversal total regardless of shape.
type Node struct {
	Kind     Kind
	Scalar   interface{} // string, float64, bool or nil
	Mapping  map[string]*Node
	Sequence []*Node
}

// UnmarshalJSON decodes arbitrary JSON into the tagged variant.
func (n *Node) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		n.Kind = KindScalar
		return nil
	}

	switch trimmed[0] {
	case '{':
		mapping := map[string]*Node{}
		if err := json.Unmarshal(trimmed, &mapping); err != nil {
			return err
		}
		n.Kind = KindMapping
		n.Mapping = mapping
	case '[':
		var sequence []*Node
		if err := json.Unmarshal(trimmed, &sequence); err != nil {
			return err
		}
		n.Kind = KindSequence
		n.Sequence = sequence
	default:
		var scalar interface{}
		if err := json.Unmarshal(trimmed, &scalar); err != nil {
			return err
		}
		n.Kind = KindScalar
		n.Scalar = scalar
	}
	return nil
}

// MarshalJSON renders the variant back into the JSON it was decoded
// from, so payloads can be persisted for provenance.
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindMapping:
		return json.Marshal(n.Mapping)
	case KindSequence:
		return json.Marshal(n.Sequence)
	default:
		return json.Marshal(n.Scalar)
	}
}

// Get returns the named child of a mapping node, or nil.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Kind != KindMapping {
		return nil
	}
	return n.Mapping[key]
}

// Value unwraps the {value, confidence} annotation wrapper the extractor
// puts around most fields. Nodes without a wrapper are returned as-is.
func (n *Node) Value() *Node {
	if n == nil {
		return nil
	}
	if inner := n.Get("value"); inner != nil {
		return inner
	}
	return n
}

// At descends a dot-separated path, unwrapping annotation wrappers at
// every level, e.g. At("vendor.vendorName") follows vendor → value →
// vendorName → value.
func (n *Node) At(path string) *Node {
	cur := n.Value()
	for _, key := range strings.Split(path, ".") {
		cur = cur.Get(key).Value()
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Items returns the elements of a sequence node.
func (n *Node) Items() []*Node {
	if n == nil || n.Kind != KindSequence {
		return nil
	}
	return n.Sequence
}

// Text renders a scalar node as a string.
func (n *Node) Text() (string, bool) {
	if n == nil || n.Kind != KindScalar || n.Scalar == nil {
		return "", false
	}
	switch v := n.Scalar.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// Float parses a scalar node as a number. String scalars are parsed so
// that stringified confidences and amounts still resolve.
func (n *Node) Float() (float64, bool) {
	if n == nil || n.Kind != KindScalar || n.Scalar == nil {
		return 0, false
	}
	switch v := n.Scalar.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Confidences walks the whole tree and collects every parseable
// confidence annotation, at any depth.
func (n *Node) Confidences() []float64 {
	var out []float64
	n.collectConfidences(&out)
	return out
}

func (n *Node) collectConfidences(out *[]float64) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindMapping:
		if c := n.Mapping["confidence"]; c != nil {
			if f, ok := c.Float(); ok {
				*out = append(*out, f)
			}
		}
		for key, child := range n.Mapping {
			if key == "confidence" {
				continue
			}
			child.collectConfidences(out)
		}
	case KindSequence:
		for _, child := range n.Sequence {
			child.collectConfidences(out)
		}
	}
}
