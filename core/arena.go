/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Arena is the PDF object arena: it assigns object ids, stores object
// bodies, and owns the trailer dictionary. It never reuses an id once
// allocated.
//
// Objects are held in a map for lookup by id; a separate slice records the
// order they were first inserted in. PruneObjects, Compress and
// DeleteZeroLengthStreams walk that slice, and Save writes objects in
// ascending id order, so no output depends on map iteration order, which is
// a determinism requirement (spec §5).
type Arena struct {
	objects map[int64]PdfObject
	order   []int64
	nextID  int64
	trailer *PdfObjectDictionary
}

// NewArena returns an empty object arena with an empty trailer.
func NewArena() *Arena {
	return &Arena{
		objects: map[int64]PdfObject{},
		nextID:  1,
		trailer: MakeDict(),
	}
}

// NewObjectID allocates and returns the next object id without storing
// anything at it yet. Used to reserve forward references (the /Pages object
// and each font's top-level dictionary are reserved this way so that page
// and resource dictionaries can point at them before they exist).
func (a *Arena) NewObjectID() int64 {
	id := a.nextID
	a.nextID++
	return id
}

// AddObject allocates a new id, stores obj at it, and returns the id.
func (a *Arena) AddObject(obj PdfObject) int64 {
	id := a.NewObjectID()
	a.Insert(id, obj)
	return id
}

// Insert stores obj at id, normally one reserved earlier via NewObjectID
// (the assembler fills the reserved /Pages id and each font's reserved id
// this way). Neither an id that was never reserved nor a second insert at
// the same id is rejected; a second insert replaces the stored object and
// keeps its original place in the insertion order.
func (a *Arena) Insert(id int64, obj PdfObject) {
	if _, exists := a.objects[id]; !exists {
		a.order = append(a.order, id)
	}
	a.objects[id] = obj
}

// Get returns the object stored at id, or nil if none was ever inserted
// (a dangling reservation from NewObjectID that was never filled in).
func (a *Arena) Get(id int64) PdfObject {
	return a.objects[id]
}

// Trailer returns the arena's trailer dictionary for the caller to populate
// (at minimum "/Root" and "/Info" must be set before Save).
func (a *Arena) Trailer() *PdfObjectDictionary {
	return a.trailer
}

// PruneObjects removes every object not transitively reachable from the
// trailer's "/Root" and "/Info" entries. Object count is conserved: after
// pruning, every reachable id is present and every present id is reachable.
func (a *Arena) PruneObjects() {
	reachable := map[int64]bool{}
	var walk func(obj PdfObject)
	walk = func(obj PdfObject) {
		switch v := obj.(type) {
		case *PdfObjectReference:
			if reachable[v.ObjectNumber] {
				return
			}
			reachable[v.ObjectNumber] = true
			walk(a.objects[v.ObjectNumber])
		case *PdfObjectArray:
			for _, e := range v.Elements() {
				walk(e)
			}
		case *PdfObjectDictionary:
			for _, k := range v.Keys() {
				walk(v.Get(k))
			}
		case *PdfObjectStream:
			for _, k := range v.Keys() {
				walk(v.Get(k))
			}
		}
	}

	walk(a.trailer.Get("Root"))
	walk(a.trailer.Get("Info"))

	var kept []int64
	for _, id := range a.order {
		if reachable[id] {
			kept = append(kept, id)
			continue
		}
		delete(a.objects, id)
	}
	a.order = kept
}

// DeleteZeroLengthStreams removes every stream object whose body is
// zero-length. Any dangling reference left behind resolves to a missing
// object, matching how the rest of a PDF consumer treats a hole in the
// object table.
func (a *Arena) DeleteZeroLengthStreams() {
	var kept []int64
	for _, id := range a.order {
		if stream, ok := a.objects[id].(*PdfObjectStream); ok && stream.IsEmpty() {
			delete(a.objects, id)
			continue
		}
		kept = append(kept, id)
	}
	a.order = kept
}

// Compress deflates every stream object that was marked compressible at
// creation time (see NewStream) and has not been deflated yet. Order of iteration does not affect output since each stream's
// encoding is independent of every other's.
func (a *Arena) Compress() error {
	for _, id := range a.order {
		stream, ok := a.objects[id].(*PdfObjectStream)
		if !ok {
			continue
		}
		if err := stream.deflate(); err != nil {
			return err
		}
	}
	return nil
}

// Save serializes the arena to w: header, object bodies in ascending id
// order, the classic cross-reference table, and the trailer.
func (a *Arena) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("%PDF-1.3\n%\xE2\xE3\xCF\xD3\n"); err != nil {
		return err
	}

	sort.Slice(a.order, func(i, j int) bool { return a.order[i] < a.order[j] })

	offsets := make(map[int64]int64, len(a.order))
	pos := int64(len("%PDF-1.3\n%\xE2\xE3\xCF\xD3\n"))

	write := func(s string) error {
		n, err := bw.WriteString(s)
		pos += int64(n)
		return err
	}
	writeBytes := func(b []byte) error {
		n, err := bw.Write(b)
		pos += int64(n)
		return err
	}

	maxID := int64(0)
	for _, id := range a.order {
		if id > maxID {
			maxID = id
		}

		offsets[id] = pos
		obj := a.objects[id]

		if err := write(fmt.Sprintf("%d 0 obj\n", id)); err != nil {
			return err
		}

		if stream, ok := obj.(*PdfObjectStream); ok {
			if err := write(stream.PdfObjectDictionary.WriteString()); err != nil {
				return err
			}
			if err := write("\nstream\n"); err != nil {
				return err
			}
			if err := writeBytes(stream.Contents); err != nil {
				return err
			}
			if err := write("\nendstream\nendobj\n"); err != nil {
				return err
			}
			continue
		}

		if err := write(obj.WriteString()); err != nil {
			return err
		}
		if err := write("\nendobj\n"); err != nil {
			return err
		}
	}

	xrefOffset := pos
	if err := write(fmt.Sprintf("xref\n0 %d\n", maxID+1)); err != nil {
		return err
	}
	if err := write("0000000000 65535 f \n"); err != nil {
		return err
	}
	for id := int64(1); id <= maxID; id++ {
		offset, present := offsets[id]
		if !present {
			if err := write("0000000000 00000 f \n"); err != nil {
				return err
			}
			continue
		}
		if err := write(fmt.Sprintf("%010d %05d n \n", offset, 0)); err != nil {
			return err
		}
	}

	a.trailer.Set("Size", MakeInteger(maxID+1))
	if err := write("trailer\n"); err != nil {
		return err
	}
	if err := write(a.trailer.WriteString()); err != nil {
		return err
	}
	if err := write(fmt.Sprintf("\nstartxref\n%d\n%%%%EOF\n", xrefOffset)); err != nil {
		return err
	}

	return bw.Flush()
}
