package gcm

import (
	"fmt"
	"path"
)

// Node is a file or directory decoded from the table, with its name resolved.
type Node struct {
	Index  uint32
	Name   string
	Path   string
	IsDir  bool
	Offset uint32 // payload offset for files, parent index for directories
	Size   uint32 // payload size for files, next index for directories
}

type dirFrame struct {
	end  uint32
	path string
}

// Nodes walks every entry after the root and returns them in table order.
func (t *Table) Nodes() ([]Node, error) {
	numEntries := t.NumEntries()
	nodes := make([]Node, 0, numEntries)
	stack := []dirFrame{{end: numEntries}}

	for i := uint32(1); i < numEntries; i++ {
		for len(stack) > 1 && i >= stack[len(stack)-1].end {
			stack = stack[:len(stack)-1]
		}

		name, err := t.Name(i)
		if err != nil {
			return nil, err
		}

		entry := t.Entries[i]
		node := Node{
			Index:  i,
			Name:   name,
			Path:   path.Join(stack[len(stack)-1].path, name),
			IsDir:  entry.IsDir(),
			Offset: entry.Offset,
			Size:   entry.Length,
		}
		nodes = append(nodes, node)

		if node.IsDir {
			if entry.Length <= i || entry.Length > numEntries {
				return nil, fmt.Errorf("%w: directory %q (entry %d) has next index %d outside (%d, %d]",
					ErrTableCorrupt, node.Path, i, entry.Length, i, numEntries)
			}
			stack = append(stack, dirFrame{end: entry.Length, path: node.Path})
		}
	}

	return nodes, nil
}

// Files returns only the file nodes.
func (t *Table) Files() ([]Node, error) {
	nodes, err := t.Nodes()
	if err != nil {
		return nil, err
	}

	files := nodes[:0]
	for _, node := range nodes {
		if !node.IsDir {
			files = append(files, node)
		}
	}
	return files, nil
}

// Find returns the single file whose name or full path equals name.
func (t *Table) Find(name string) (Node, error) {
	files, err := t.Files()
	if err != nil {
		return Node{}, err
	}

	var matches []Node
	for _, file := range files {
		if file.Name == name || file.Path == name {
			matches = append(matches, file)
		}
	}

	switch len(matches) {
	case 0:
		return Node{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return Node{}, fmt.Errorf("%w: %s matched %d files", ErrAmbiguous, name, len(matches))
	}
}
