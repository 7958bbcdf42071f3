package derivation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// canonicalHash returns the first 32 hex characters (128 bits) of the
// SHA-256 digest of the derivation's canonical ATerm encoding, used to assign output store paths before the
// derivation's hash-of-hashes (fixed-output vs. floating derivations) is
// otherwise known.
func (d *Derivation) canonicalHash() string {
	sum := sha256.Sum256(Encode(d))

	return hex.EncodeToString(sum[:])[:32]
}

// Encode renders a Derivation in the canonical ATerm-style encoding from
// §4.5: `Derive(outputs,inputDrvs,inputSrcs,system,builder,args,env)`,
// with outputs/inputDrvs/env entries in lexicographic key order. Encode
// and Decode round-trip a Derivation bit-for-bit.
func Encode(d *Derivation) []byte {
	var b strings.Builder
	b.WriteString("Derive(")
	encodeOutputs(&b, d.Outputs)
	b.WriteByte(',')
	encodeInputDrvs(&b, d.InputDrvs)
	b.WriteByte(',')
	encodeStrings(&b, d.InputSrcs)
	b.WriteByte(',')
	encodeString(&b, d.System)
	b.WriteByte(',')
	encodeString(&b, d.Builder)
	b.WriteByte(',')
	encodeStrings(&b, d.Args)
	b.WriteByte(',')
	encodeEnv(&b, d.Env)
	b.WriteByte(')')

	return []byte(b.String())
}

func encodeOutputs(b *strings.Builder, outputs map[string]*Output) {
	b.WriteByte('[')
	for i, name := range sortedKeys(outputs) {
		if i > 0 {
			b.WriteByte(',')
		}
		out := outputs[name]
		b.WriteByte('(')
		encodeString(b, name)
		b.WriteByte(',')
		encodeString(b, out.Path)
		b.WriteByte(',')
		encodeString(b, out.HashAlgo)
		b.WriteByte(',')
		encodeString(b, out.Hash)
		b.WriteByte(')')
	}
	b.WriteByte(']')
}

func encodeInputDrvs(b *strings.Builder, inputDrvs map[string]*InputDrvOutputs) {
	b.WriteByte('[')
	for i, path := range sortedKeys(inputDrvs) {
		if i > 0 {
			b.WriteByte(',')
		}
		entry := inputDrvs[path]
		b.WriteByte('(')
		encodeString(b, path)
		b.WriteByte(',')
		encodeStrings(b, entry.OutputNames)
		if len(entry.DynamicOutputs) > 0 {
			b.WriteByte(',')
			encodeDynamicOutputs(b, entry.DynamicOutputs)
		}
		b.WriteByte(')')
	}
	b.WriteByte(']')
}

func encodeDynamicOutputs(b *strings.Builder, dyn map[string]*InputDrvOutputs) {
	b.WriteByte('[')
	for i, name := range sortedKeys(dyn) {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		encodeString(b, name)
		b.WriteByte(',')
		encodeStrings(b, dyn[name].OutputNames)
		b.WriteByte(',')
		encodeDynamicOutputs(b, dyn[name].DynamicOutputs)
		b.WriteByte(')')
	}
	b.WriteByte(']')
}

func encodeStrings(b *strings.Builder, strs []string) {
	b.WriteByte('[')
	for i, s := range strs {
		if i > 0 {
			b.WriteByte(',')
		}
		encodeString(b, s)
	}
	b.WriteByte(']')
}

func encodeEnv(b *strings.Builder, env map[string]string) {
	b.WriteByte('[')
	for i, k := range sortedKeys(env) {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		encodeString(b, k)
		b.WriteByte(',')
		encodeString(b, env[k])
		b.WriteByte(')')
	}
	b.WriteByte(']')
}

// encodeString writes s as a quoted ATerm string, escaping \, ", \n, \r,
// \t; every other byte is written literally.
func encodeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

// decoder is a minimal hand-rolled recursive-descent reader over the
// ATerm grammar, matching the shape of the teacher's own Pratt parser
// (pkg/parser) rather than pulling in a combinator library: the grammar
// is a handful of fixed tuple/list productions, not an expression
// language, so the extra machinery a parser-combinator dependency would
// bring has no payoff here.
type decoder struct {
	s   string
	pos int
}

// Decode parses the canonical ATerm-style encoding back into a
// Derivation. It is the exact inverse of Encode.
func Decode(data []byte) (*Derivation, error) {
	dec := &decoder{s: string(data)}

	if err := dec.expectLiteral("Derive("); err != nil {
		return nil, err
	}

	outputs, err := dec.parseOutputs()
	if err != nil {
		return nil, err
	}
	if err := dec.expectByte(','); err != nil {
		return nil, err
	}

	inputDrvs, err := dec.parseInputDrvs()
	if err != nil {
		return nil, err
	}
	if err := dec.expectByte(','); err != nil {
		return nil, err
	}

	inputSrcs, err := dec.parseStrings()
	if err != nil {
		return nil, err
	}
	if err := dec.expectByte(','); err != nil {
		return nil, err
	}

	system, err := dec.parseString()
	if err != nil {
		return nil, err
	}
	if err := dec.expectByte(','); err != nil {
		return nil, err
	}

	builder, err := dec.parseString()
	if err != nil {
		return nil, err
	}
	if err := dec.expectByte(','); err != nil {
		return nil, err
	}

	args, err := dec.parseStrings()
	if err != nil {
		return nil, err
	}
	if err := dec.expectByte(','); err != nil {
		return nil, err
	}

	env, err := dec.parseEnv()
	if err != nil {
		return nil, err
	}
	if err := dec.expectByte(')'); err != nil {
		return nil, err
	}

	name := "unknown"
	if pname, ok := env["pname"]; ok {
		name = pname
	} else if len(outputs) > 0 {
		name = derivationNameFromOutput(outputs)
	}

	return &Derivation{
		Name:      name,
		System:    system,
		Builder:   builder,
		Args:      args,
		Env:       env,
		Outputs:   outputs,
		InputDrvs: inputDrvs,
		InputSrcs: inputSrcs,
	}, nil
}

func derivationNameFromOutput(outputs map[string]*Output) string {
	for _, name := range sortedKeys(outputs) {
		return strings.TrimSuffix(outputs[name].Path, "/"+name)
	}

	return "unknown"
}

func (dec *decoder) parseOutputs() (map[string]*Output, error) {
	if err := dec.expectByte('['); err != nil {
		return nil, err
	}

	outputs := make(map[string]*Output)
	for {
		if dec.peek() == ']' {
			dec.pos++

			break
		}
		if len(outputs) > 0 {
			if err := dec.expectByte(','); err != nil {
				return nil, err
			}
		}

		if err := dec.expectByte('('); err != nil {
			return nil, err
		}
		name, err := dec.parseString()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(','); err != nil {
			return nil, err
		}
		path, err := dec.parseString()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(','); err != nil {
			return nil, err
		}
		hashAlgo, err := dec.parseString()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(','); err != nil {
			return nil, err
		}
		hash, err := dec.parseString()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(')'); err != nil {
			return nil, err
		}

		outputs[name] = &Output{Path: path, HashAlgo: hashAlgo, Hash: hash}
	}

	return outputs, nil
}

func (dec *decoder) parseInputDrvs() (map[string]*InputDrvOutputs, error) {
	if err := dec.expectByte('['); err != nil {
		return nil, err
	}

	inputDrvs := make(map[string]*InputDrvOutputs)
	for {
		if dec.peek() == ']' {
			dec.pos++

			break
		}
		if len(inputDrvs) > 0 {
			if err := dec.expectByte(','); err != nil {
				return nil, err
			}
		}

		if err := dec.expectByte('('); err != nil {
			return nil, err
		}
		path, err := dec.parseString()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(','); err != nil {
			return nil, err
		}
		outputNames, err := dec.parseStrings()
		if err != nil {
			return nil, err
		}
		dynOutputs := make(map[string]*InputDrvOutputs)
		if dec.peek() == ',' {
			dec.pos++
			dynOutputs, err = dec.parseDynamicOutputs()
			if err != nil {
				return nil, err
			}
		}
		if err := dec.expectByte(')'); err != nil {
			return nil, err
		}

		inputDrvs[path] = &InputDrvOutputs{OutputNames: outputNames, DynamicOutputs: dynOutputs}
	}

	return inputDrvs, nil
}

func (dec *decoder) parseDynamicOutputs() (map[string]*InputDrvOutputs, error) {
	if err := dec.expectByte('['); err != nil {
		return nil, err
	}

	dyn := make(map[string]*InputDrvOutputs)
	for {
		if dec.peek() == ']' {
			dec.pos++

			break
		}
		if len(dyn) > 0 {
			if err := dec.expectByte(','); err != nil {
				return nil, err
			}
		}

		if err := dec.expectByte('('); err != nil {
			return nil, err
		}
		name, err := dec.parseString()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(','); err != nil {
			return nil, err
		}
		outputNames, err := dec.parseStrings()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(','); err != nil {
			return nil, err
		}
		nested, err := dec.parseDynamicOutputs()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(')'); err != nil {
			return nil, err
		}

		dyn[name] = &InputDrvOutputs{OutputNames: outputNames, DynamicOutputs: nested}
	}

	return dyn, nil
}

func (dec *decoder) parseStrings() ([]string, error) {
	if err := dec.expectByte('['); err != nil {
		return nil, err
	}

	var strs []string
	for {
		if dec.peek() == ']' {
			dec.pos++

			break
		}
		if len(strs) > 0 {
			if err := dec.expectByte(','); err != nil {
				return nil, err
			}
		}

		s, err := dec.parseString()
		if err != nil {
			return nil, err
		}
		strs = append(strs, s)
	}

	return strs, nil
}

func (dec *decoder) parseEnv() (map[string]string, error) {
	if err := dec.expectByte('['); err != nil {
		return nil, err
	}

	env := make(map[string]string)
	for {
		if dec.peek() == ']' {
			dec.pos++

			break
		}
		if len(env) > 0 {
			if err := dec.expectByte(','); err != nil {
				return nil, err
			}
		}

		if err := dec.expectByte('('); err != nil {
			return nil, err
		}
		k, err := dec.parseString()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(','); err != nil {
			return nil, err
		}
		v, err := dec.parseString()
		if err != nil {
			return nil, err
		}
		if err := dec.expectByte(')'); err != nil {
			return nil, err
		}

		env[k] = v
	}

	return env, nil
}

func (dec *decoder) parseString() (string, error) {
	if err := dec.expectByte('"'); err != nil {
		return "", err
	}

	var b strings.Builder
	for {
		if dec.pos >= len(dec.s) {
			return "", fmt.Errorf("derivation codec: unterminated string at byte %d", dec.pos)
		}
		c := dec.s[dec.pos]
		if c == '"' {
			dec.pos++

			break
		}
		if c == '\\' {
			dec.pos++
			if dec.pos >= len(dec.s) {
				return "", fmt.Errorf("derivation codec: dangling escape at byte %d", dec.pos)
			}
			switch dec.s[dec.pos] {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return "", fmt.Errorf("derivation codec: unknown escape '\\%c' at byte %d", dec.s[dec.pos], dec.pos)
			}
			dec.pos++

			continue
		}
		b.WriteByte(c)
		dec.pos++
	}

	return b.String(), nil
}

func (dec *decoder) peek() byte {
	if dec.pos >= len(dec.s) {
		return 0
	}

	return dec.s[dec.pos]
}

func (dec *decoder) expectByte(c byte) error {
	if dec.peek() != c {
		return fmt.Errorf("derivation codec: expected '%c' at byte %d, got %q", c, dec.pos, dec.peek())
	}
	dec.pos++

	return nil
}

func (dec *decoder) expectLiteral(lit string) error {
	if !strings.HasPrefix(dec.s[dec.pos:], lit) {
		return fmt.Errorf("derivation codec: expected %q at byte %d", lit, dec.pos)
	}
	dec.pos += len(lit)

	return nil
}
