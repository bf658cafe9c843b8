package neat

import (
	"fmt"

	"github.com/baldhumanity/neat-dag/neat/codec"
)

const (
	genomeMagic   = "NEAT"
	genomeVersion = 1
)

var byteOrder = codec.LittleEndian

// EncodeGenome serialises a genome into its binary form: the magic "NEAT", a
// format version, the genome header, then every neuron gene (id, activation
// tag) and every connection gene (innovation, in, out, weight, enabled) in
// genome order. All multi-byte values are little-endian.
func EncodeGenome(g *Genome) []byte {
	w := codec.NewWriter(64 + 9*len(g.neurons) + 33*len(g.connections))
	writeGenome(w, g)
	return w.Bytes()
}

func writeGenome(w *codec.Writer, g *Genome) {
	w.WriteString(genomeMagic)
	w.WriteUint16(genomeVersion, byteOrder)
	w.WriteInt64(int64(g.ID), byteOrder)
	w.WriteUint32(uint32(g.InputCount), byteOrder)
	w.WriteUint32(uint32(g.OutputCount), byteOrder)
	w.WriteFloat64(g.Fitness, byteOrder)

	w.WriteUint32(uint32(len(g.neurons)), byteOrder)
	for _, n := range g.neurons {
		w.WriteInt64(int64(n.ID), byteOrder)
		w.WriteUint8(uint8(n.Activation))
	}

	w.WriteUint32(uint32(len(g.connections)), byteOrder)
	for _, c := range g.connections {
		w.WriteInt64(int64(c.Innovation), byteOrder)
		w.WriteInt64(int64(c.InNeuronID), byteOrder)
		w.WriteInt64(int64(c.OutNeuronID), byteOrder)
		w.WriteFloat64(c.Weight, byteOrder)
		enabled := uint8(0)
		if c.Enabled {
			enabled = 1
		}
		w.WriteUint8(enabled)
	}
}

// DecodeGenome parses the output of EncodeGenome. The decoded genome is
// validated; any inconsistency is reported as ErrMalformedGenome or ErrCycle.
func DecodeGenome(data []byte) (*Genome, error) {
	r := codec.NewReader(data)
	g, err := readGenome(r)
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedGenome, r.Remaining())
	}
	return g, nil
}

func readGenome(r *codec.Reader) (*Genome, error) {
	g, err := decodeGenome(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGenome, err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// decodeGenome reads the genome fields; errors are wrapped by the caller.
func decodeGenome(r *codec.Reader) (*Genome, error) {
	magic, err := r.ReadString(len(genomeMagic))
	if err != nil {
		return nil, err
	}
	if magic != genomeMagic {
		return nil, fmt.Errorf("bad magic %q", magic)
	}
	version, err := r.ReadUint16(byteOrder)
	if err != nil {
		return nil, err
	}
	if version != genomeVersion {
		return nil, fmt.Errorf("unsupported genome format version %d", version)
	}

	id, err := r.ReadInt64(byteOrder)
	if err != nil {
		return nil, err
	}
	inputs, err := r.ReadUint32(byteOrder)
	if err != nil {
		return nil, err
	}
	outputs, err := r.ReadUint32(byteOrder)
	if err != nil {
		return nil, err
	}
	fitness, err := r.ReadFloat64(byteOrder)
	if err != nil {
		return nil, err
	}
	g := NewGenome(int(id), int(inputs), int(outputs))
	g.Fitness = fitness

	neuronCount, err := r.ReadUint32(byteOrder)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < neuronCount; i++ {
		nid, err := r.ReadInt64(byteOrder)
		if err != nil {
			return nil, err
		}
		tag, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		act := Activation(tag)
		if !act.Valid() {
			return nil, fmt.Errorf("neuron %d has unknown activation tag %d", nid, tag)
		}
		if err := g.AddNeuronGene(NewNeuronGene(int(nid), act)); err != nil {
			return nil, err
		}
	}

	connCount, err := r.ReadUint32(byteOrder)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < connCount; i++ {
		var fields [3]int64
		for j := range fields {
			if fields[j], err = r.ReadInt64(byteOrder); err != nil {
				return nil, err
			}
		}
		weight, err := r.ReadFloat64(byteOrder)
		if err != nil {
			return nil, err
		}
		enabled, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		if enabled > 1 {
			return nil, fmt.Errorf("connection %d has enabled flag %d", fields[0], enabled)
		}
		gene := NewConnectionGene(int(fields[0]), int(fields[1]), int(fields[2]), weight)
		gene.Enabled = enabled == 1
		if err := g.AddConnectionGene(gene); err != nil {
			return nil, err
		}
	}
	return g, nil
}
