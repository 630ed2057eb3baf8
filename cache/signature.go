package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/jonwraymond/jitcache/tensor"
)

// ArgumentSource supplies the runtime view of a call's positional
// arguments: concrete values for compile-time constants and type/shape
// for everything else.
//
// Contract:
// - Ordering: indices are call-positional and stable for the call duration.
// - Errors: Value and Spec return an error when the argument is unavailable.
type ArgumentSource interface {
	// NumArgs returns the number of positional arguments.
	NumArgs() int

	// Value returns the concrete value of argument i.
	Value(i int) (*tensor.Tensor, error)

	// Spec returns the element type and shape of argument i without
	// committing to its value.
	Spec(i int) (tensor.Spec, error)
}

// TensorArgs is a slice-backed ArgumentSource.
type TensorArgs []*tensor.Tensor

// NumArgs returns the number of positional arguments.
func (a TensorArgs) NumArgs() int {
	return len(a)
}

// Value returns the tensor at position i, or ErrArgumentUnavailable if
// no value is held there.
func (a TensorArgs) Value(i int) (*tensor.Tensor, error) {
	if a[i] == nil {
		return nil, fmt.Errorf("%w (argument %d)", ErrArgumentUnavailable, i)
	}
	return a[i], nil
}

// Spec returns the spec of the tensor at position i.
func (a TensorArgs) Spec(i int) (tensor.Spec, error) {
	if a[i] == nil {
		return tensor.Spec{}, fmt.Errorf("%w (argument %d)", ErrArgumentUnavailable, i)
	}
	return a[i].Spec(), nil
}

// Ensure TensorArgs implements ArgumentSource
var _ ArgumentSource = (TensorArgs)(nil)

// Signature uniquely identifies one compilation output: the function,
// the ordered (element type, shape) list of its non-constant arguments,
// and the ordered full values of its compile-time constant arguments.
//
// Contract:
//   - Immutability: a Signature is never modified after construction and
//     is owned by its cache entry once inserted.
//   - Identity: two signatures are equal iff name, attributes, argument
//     specs element-wise, and constant values element-wise (type, shape,
//     and bit content) all compare equal. Key() is an injective encoding
//     of exactly those components, so key equality coincides with
//     structural equality.
type Signature struct {
	name        string
	attrs       map[string]string
	argTypes    []tensor.Spec
	argValues   []*tensor.Tensor
	key         string
	fingerprint string
}

// BuildSignature derives the cache key for one call.
//
// The leading numConstantArgs positions of args are compile-time
// constants and must resolve to concrete values; the remaining positions
// contribute only their element type and shape, since their values may
// vary across calls without invalidating the cache. Variable arguments
// follow, each contributing the spec of its value when present and a
// distinct absent marker otherwise, so an uninitialized-to-initialized
// transition keys a new entry.
//
// On error no Signature is returned and the cache is never mutated.
func BuildSignature(fn Function, numConstantArgs int, variableArgs []tensor.Optional, args ArgumentSource) (*Signature, error) {
	if fn.Name == "" {
		return nil, ErrEmptyFunctionName
	}
	numArgs := args.NumArgs()
	if numConstantArgs < 0 || numConstantArgs > numArgs {
		return nil, fmt.Errorf("%w: %d constants of %d arguments", ErrInvalidConstantCount, numConstantArgs, numArgs)
	}

	sig := &Signature{
		name:      fn.Name,
		attrs:     copyAttrs(fn.Attrs),
		argTypes:  make([]tensor.Spec, 0, numArgs-numConstantArgs+len(variableArgs)),
		argValues: make([]*tensor.Tensor, 0, numConstantArgs),
	}

	for i := 0; i < numConstantArgs; i++ {
		value, err := args.Value(i)
		if err != nil {
			return nil, fmt.Errorf("%w (argument %d): %v", ErrConstantNotInitialized, i, err)
		}
		if value == nil {
			return nil, fmt.Errorf("%w (argument %d)", ErrConstantNotInitialized, i)
		}
		sig.argValues = append(sig.argValues, value)
	}

	for i := numConstantArgs; i < numArgs; i++ {
		spec, err := args.Spec(i)
		if err != nil {
			return nil, err
		}
		if !spec.Valid() {
			return nil, fmt.Errorf("%w (argument %d)", ErrUnsupportedArgument, i)
		}
		sig.argTypes = append(sig.argTypes, spec)
	}

	for _, optional := range variableArgs {
		if value, ok := optional.Value(); ok {
			sig.argTypes = append(sig.argTypes, value.Spec())
		} else {
			// Absent marker: the zero Spec keys differently from
			// every concrete spec.
			sig.argTypes = append(sig.argTypes, tensor.Spec{})
		}
	}

	sig.key = sig.encodeKey()
	sum := sha256.Sum256([]byte(sig.key))
	sig.fingerprint = hex.EncodeToString(sum[:8])
	return sig, nil
}

// Name returns the function name.
func (s *Signature) Name() string {
	return s.name
}

// Attrs returns a copy of the function attribute bindings.
func (s *Signature) Attrs() map[string]string {
	return copyAttrs(s.attrs)
}

// ArgTypes returns the ordered (element type, shape) list of the
// non-constant arguments. The absent marker is the zero Spec.
func (s *Signature) ArgTypes() []tensor.Spec {
	return append([]tensor.Spec(nil), s.argTypes...)
}

// ArgValues returns the ordered values of the compile-time constant
// arguments. Tensors are immutable and shared, not copied.
func (s *Signature) ArgValues() []*tensor.Tensor {
	return append([]*tensor.Tensor(nil), s.argValues...)
}

// Key returns the canonical encoding of the signature. Keys are
// injective: two signatures share a key iff they are structurally equal.
func (s *Signature) Key() string {
	return s.key
}

// Fingerprint returns a short stable digest of the key, for logs and
// metric attributes.
func (s *Signature) Fingerprint() string {
	return s.fingerprint
}

// Equal reports structural equality over name, attributes, argument
// specs, and constant values.
func (s *Signature) Equal(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.name != other.name {
		return false
	}
	if len(s.attrs) != len(other.attrs) {
		return false
	}
	for k, v := range s.attrs {
		if other.attrs[k] != v {
			return false
		}
	}
	if len(s.argTypes) != len(other.argTypes) {
		return false
	}
	for i, spec := range s.argTypes {
		if !spec.Equal(other.argTypes[i]) {
			return false
		}
	}
	if len(s.argValues) != len(other.argValues) {
		return false
	}
	for i, value := range s.argValues {
		if !value.Equal(other.argValues[i]) {
			return false
		}
	}
	return true
}

// String renders the signature in human-readable form: function name,
// sorted attributes, argument type/shape list, and constant values.
func (s *Signature) String() string {
	var sb strings.Builder
	sb.WriteString(s.name)
	if len(s.attrs) > 0 {
		sb.WriteByte('[')
		for i, k := range sortedKeys(s.attrs) {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(s.attrs[k])
		}
		sb.WriteByte(']')
	}
	sb.WriteByte('(')
	for i, spec := range s.argTypes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(spec.String())
	}
	sb.WriteByte(')')
	if len(s.argValues) > 0 {
		sb.WriteString("; constants: ")
		for i, value := range s.argValues {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(value.String())
		}
	}
	return sb.String()
}

// encodeKey produces the canonical byte encoding of the signature. Every
// variable-length component is length-prefixed and every section is
// count-prefixed, so the encoding is injective.
func (s *Signature) encodeKey() string {
	buf := make([]byte, 0, 128)
	buf = appendLenPrefixed(buf, s.name)

	buf = binary.AppendUvarint(buf, uint64(len(s.attrs)))
	for _, k := range sortedKeys(s.attrs) {
		buf = appendLenPrefixed(buf, k)
		buf = appendLenPrefixed(buf, s.attrs[k])
	}

	buf = binary.AppendUvarint(buf, uint64(len(s.argTypes)))
	for _, spec := range s.argTypes {
		buf = appendSpec(buf, spec)
	}

	buf = binary.AppendUvarint(buf, uint64(len(s.argValues)))
	for _, value := range s.argValues {
		buf = appendSpec(buf, value.Spec())
		buf = binary.AppendUvarint(buf, uint64(len(value.Data())))
		buf = append(buf, value.Data()...)
	}

	return string(buf)
}

func appendLenPrefixed(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

func appendSpec(dst []byte, spec tensor.Spec) []byte {
	dst = append(dst, byte(spec.DType))
	dst = binary.AppendUvarint(dst, uint64(spec.Shape.Rank()))
	for _, dim := range spec.Shape.Dims() {
		dst = binary.AppendUvarint(dst, uint64(dim))
	}
	return dst
}

// sortedKeys returns map keys in deterministic order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyAttrs(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	copied := make(map[string]string, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return copied
}
