package inject

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/itchio/headway/counter"
	"github.com/opencontainers/go-digest"
)

// RebuiltTable is the rewritten table together with the index it was written from.
type RebuiltTable struct {
	Table []byte
	Index Index
}

// Output describes a file written by WriteImage or WriteTableBlob.
type Output struct {
	Path   string
	Size   int64
	Digest digest.Digest
}

type resolvedRequest struct {
	request Request
	pivot   UpdateRecord
	payload []byte
}

// Rebuild applies requests to the disc's table in order. Every request is
// resolved and its payload loaded before any of them is applied, so a bad
// request fails the rebuild without touching the index. A nil resolver
// treats targets as filenames.
func Rebuild(disc *gcm.Disc, requests []Request, resolver Resolver) (*RebuiltTable, error) {
	if resolver == nil {
		resolver = FilenameResolver{}
	}

	table, err := disc.ReadTable()
	if err != nil {
		return nil, err
	}

	index, err := BuildIndex(disc, table)
	if err != nil {
		return nil, err
	}

	resolved := make([]resolvedRequest, 0, len(requests))
	for _, request := range requests {
		filename, err := resolver.Resolve(request.Target)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTarget, request.Target, err)
		}

		pivot, err := index.Resolve(filename)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToResolveTarget, err)
		}
		common.LogDebug(common.DebugRequestResolved, request.Target, filename)

		payload, err := LoadPayload(request)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedRequest{request: request, pivot: pivot, payload: payload})
	}

	if len(resolved) == 0 {
		common.LogInfo(common.InfoNoReplacements)
	}

	for _, r := range resolved {
		current, _ := index.Get(r.pivot.OriginalOffset)
		shift := Shift(current.UpdatedSize, uint32(len(r.payload)))

		index, err = index.Apply(r.pivot.OriginalOffset, r.payload)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToApplyReplacement, err)
		}
		common.LogInfo(common.InfoReplacementApplied, r.request.Target, r.pivot.Name,
			current.UpdatedSize, len(r.payload), shift)
	}

	raw, err := WriteTable(table, index)
	if err != nil {
		return nil, err
	}
	common.LogInfo(common.InfoFSTRebuilt)

	return &RebuiltTable{Table: raw, Index: index}, nil
}

// WriteImage assembles the rebuilt image into path. The image is written to a
// temporary file next to path and renamed into place only once complete.
func WriteImage(disc *gcm.Disc, rebuilt *RebuiltTable, path string) (*Output, error) {
	image, _, err := WriteOutputs(disc, rebuilt, path, "")
	return image, err
}

// WriteTableBlob writes the rewritten table on its own to path.
func WriteTableBlob(rebuilt *RebuiltTable, path string) (*Output, error) {
	staged, err := stageFile(path, tableWriter(rebuilt))
	if err != nil {
		return nil, err
	}
	if err := staged.commit(); err != nil {
		return nil, err
	}

	common.LogInfo(common.InfoTableWritten, staged.output.Path, staged.output.Size, staged.output.Digest)
	return &staged.output, nil
}

// WriteOutputs writes the rebuilt image to imagePath and, when tablePath is
// not empty, the rewritten table to tablePath. Both are staged as temporary
// files and renamed into place only after both are complete; on failure
// neither path is created.
func WriteOutputs(disc *gcm.Disc, rebuilt *RebuiltTable, imagePath, tablePath string) (image, table *Output, err error) {
	var staged []*stagedFile
	defer func() {
		if err != nil {
			for _, s := range staged {
				s.discard()
			}
		}
	}()

	if tablePath != "" {
		blob, err := stageFile(tablePath, tableWriter(rebuilt))
		if err != nil {
			return nil, nil, err
		}
		staged = append(staged, blob)
	}

	assembled, err := stageFile(imagePath, func(w io.Writer) (int64, error) {
		return Assemble(w, disc, rebuilt)
	})
	if err != nil {
		return nil, nil, err
	}
	staged = append(staged, assembled)

	for _, s := range staged {
		if err = s.commit(); err != nil {
			return nil, nil, err
		}
	}

	image = &assembled.output
	common.LogInfo(common.InfoImageWritten, image.Path, image.Size, image.Digest)
	if tablePath != "" {
		table = &staged[0].output
		common.LogInfo(common.InfoTableWritten, table.Path, table.Size, table.Digest)
	}
	return image, table, nil
}

func tableWriter(rebuilt *RebuiltTable) func(io.Writer) (int64, error) {
	return func(w io.Writer) (int64, error) {
		cw := counter.NewWriter(w)
		_, err := cw.Write(rebuilt.Table)
		return cw.Count(), err
	}
}

// stagedFile is a complete output sitting in a temporary file next to its
// final path.
type stagedFile struct {
	temp      string
	output    Output
	committed bool
}

func stageFile(path string, write func(io.Writer) (int64, error)) (staged *stagedFile, err error) {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageOpen, common.ErrFailedToCreateOutputFile, err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	digester := digest.Canonical.Digester()
	buffered := bufio.NewWriterSize(io.MultiWriter(file, digester.Hash()), 1<<20)

	size, err := write(buffered)
	if err != nil {
		return nil, err
	}
	if err = buffered.Flush(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageOpen, common.ErrFailedToFinalizeOutputFile, err)
	}
	if err = file.Chmod(0o644); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageOpen, common.ErrFailedToFinalizeOutputFile, err)
	}
	if err = file.Sync(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageOpen, common.ErrFailedToFinalizeOutputFile, err)
	}
	if err = file.Close(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageOpen, common.ErrFailedToFinalizeOutputFile, err)
	}

	return &stagedFile{
		temp:   file.Name(),
		output: Output{Path: path, Size: size, Digest: digester.Digest()},
	}, nil
}

// commit renames the temporary file onto the final path.
func (s *stagedFile) commit() error {
	if err := os.Rename(s.temp, s.output.Path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageOpen, common.ErrFailedToFinalizeOutputFile, err)
	}
	s.committed = true
	return nil
}

// discard removes the staged output, including an already committed one.
func (s *stagedFile) discard() {
	if s.committed {
		os.Remove(s.output.Path)
		return
	}
	os.Remove(s.temp)
}
