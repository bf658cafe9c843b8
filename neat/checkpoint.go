package neat

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/baldhumanity/neat-dag/neat/codec"
)

const (
	checkpointMagic   = "NCKP"
	checkpointVersion = 1
)

// Checkpoint is the resumable state of an evolution run: the innovation
// authority that numbered every gene and the genomes alive at Generation.
type Checkpoint struct {
	Generation  int
	Innovations AuthorityState
	Genomes     []*Genome
}

// SaveCheckpoint writes the checkpoint to a gzip-compressed file.
func SaveCheckpoint(filePath string, cp *Checkpoint) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	if _, err := gzWriter.Write(encodeCheckpoint(cp)); err != nil {
		return fmt.Errorf("failed to write checkpoint '%s': %w", filePath, err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint '%s': %w", filePath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close checkpoint '%s': %w", filePath, err)
	}

	logger.Info("checkpoint saved",
		slog.String("path", filePath),
		slog.Int("generation", cp.Generation),
		slog.Int("genomes", len(cp.Genomes)),
	)
	return nil
}

// LoadCheckpoint reads a checkpoint written by SaveCheckpoint. Every genome
// is validated while decoding.
func LoadCheckpoint(filePath string) (*Checkpoint, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	data, err := io.ReadAll(gzReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint '%s': %w", filePath, err)
	}
	cp, err := decodeCheckpoint(codec.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint '%s': %w", filePath, err)
	}

	logger.Info("checkpoint loaded",
		slog.String("path", filePath),
		slog.Int("generation", cp.Generation),
		slog.Int("genomes", len(cp.Genomes)),
	)
	return cp, nil
}

func encodeCheckpoint(cp *Checkpoint) []byte {
	w := codec.NewWriter(1024)
	w.WriteString(checkpointMagic)
	w.WriteUint16(checkpointVersion, byteOrder)
	w.WriteInt64(int64(cp.Generation), byteOrder)

	s := cp.Innovations
	w.WriteInt64(int64(s.NextNeuronID), byteOrder)
	w.WriteInt64(int64(s.NextInnovation), byteOrder)
	w.WriteInt64(int64(s.NextGenomeID), byteOrder)

	keys := make([]ConnectionKey, 0, len(s.Connections))
	for k := range s.Connections {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return s.Connections[keys[i]] < s.Connections[keys[j]]
	})
	w.WriteUint32(uint32(len(keys)), byteOrder)
	for _, k := range keys {
		w.WriteInt64(int64(k.InNeuronID), byteOrder)
		w.WriteInt64(int64(k.OutNeuronID), byteOrder)
		w.WriteInt64(int64(s.Connections[k]), byteOrder)
	}

	splits := make([]int, 0, len(s.Splits))
	for innov := range s.Splits {
		splits = append(splits, innov)
	}
	sort.Ints(splits)
	w.WriteUint32(uint32(len(splits)), byteOrder)
	for _, innov := range splits {
		w.WriteInt64(int64(innov), byteOrder)
		w.WriteInt64(int64(s.Splits[innov]), byteOrder)
	}

	w.WriteUint32(uint32(len(cp.Genomes)), byteOrder)
	for _, g := range cp.Genomes {
		writeGenome(w, g)
	}
	return w.Bytes()
}

func decodeCheckpoint(r *codec.Reader) (*Checkpoint, error) {
	magic, err := r.ReadString(len(checkpointMagic))
	if err != nil {
		return nil, err
	}
	if magic != checkpointMagic {
		return nil, fmt.Errorf("not a checkpoint: bad magic %q", magic)
	}
	version, err := r.ReadUint16(byteOrder)
	if err != nil {
		return nil, err
	}
	if version != checkpointVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %d", version)
	}

	var header [4]int64 // generation, next neuron id, next innovation, next genome id
	for i := range header {
		if header[i], err = r.ReadInt64(byteOrder); err != nil {
			return nil, err
		}
	}
	cp := &Checkpoint{
		Generation: int(header[0]),
		Innovations: AuthorityState{
			NextNeuronID:   int(header[1]),
			NextInnovation: int(header[2]),
			NextGenomeID:   int(header[3]),
			Connections:    make(map[ConnectionKey]int),
			Splits:         make(map[int]int),
		},
	}

	n, err := r.ReadUint32(byteOrder)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		var entry [3]int64 // in, out, innovation
		for j := range entry {
			if entry[j], err = r.ReadInt64(byteOrder); err != nil {
				return nil, err
			}
		}
		key := ConnectionKey{InNeuronID: int(entry[0]), OutNeuronID: int(entry[1])}
		cp.Innovations.Connections[key] = int(entry[2])
	}

	if n, err = r.ReadUint32(byteOrder); err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		innov, err := r.ReadInt64(byteOrder)
		if err != nil {
			return nil, err
		}
		neuronID, err := r.ReadInt64(byteOrder)
		if err != nil {
			return nil, err
		}
		cp.Innovations.Splits[int(innov)] = int(neuronID)
	}

	if n, err = r.ReadUint32(byteOrder); err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		g, err := readGenome(r)
		if err != nil {
			return nil, fmt.Errorf("genome %d of %d: %w", i+1, n, err)
		}
		cp.Genomes = append(cp.Genomes, g)
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after checkpoint", r.Remaining())
	}
	return cp, nil
}
