package engine

import (
	"io"
	"strconv"
)

// Duplicate records a repeated member name and the pointer of the object that
// holds it.
type Duplicate struct {
	Key     string
	Pointer string
	Offset  int64
}

type scanFrame struct {
	keys      map[string]struct{}
	isObject  bool
	pointer   string
	pending   string
	nextIndex int
}

// ScanDuplicateKeys consumes src and returns every repeated object key.
// maxDups < 0 means unlimited; otherwise scanning stops once maxDups
// duplicates have been found. A tokenizer error stops the scan and is returned
// together with the duplicates found so far; input that ends inside a
// container yields io.ErrUnexpectedEOF.
func ScanDuplicateKeys(src TokenSource, maxDups int) ([]Duplicate, error) {
	var dups []Duplicate
	var stack []scanFrame

	// childPointer derives the pointer of the value that starts now.
	childPointer := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if top.isObject {
			return JoinPointer(top.pointer, top.pending)
		}
		p := top.pointer + "/" + strconv.Itoa(top.nextIndex)
		top.nextIndex++
		return p
	}

	for {
		tok, err := src.NextToken()
		if err == io.EOF {
			if len(stack) > 0 {
				return dups, io.ErrUnexpectedEOF
			}
			return dups, nil
		}
		if err != nil {
			return dups, err
		}

		switch tok.Kind {
		case KindBeginObject:
			stack = append(stack, scanFrame{keys: map[string]struct{}{}, isObject: true, pointer: childPointer()})
		case KindBeginArray:
			stack = append(stack, scanFrame{pointer: childPointer()})
		case KindEndObject, KindEndArray:
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
		case KindKey:
			if n := len(stack); n > 0 {
				top := &stack[n-1]
				if _, ok := top.keys[tok.String]; ok {
					dups = append(dups, Duplicate{Key: tok.String, Pointer: top.pointer, Offset: tok.Offset})
					if maxDups >= 0 && len(dups) >= maxDups {
						return dups, nil
					}
				}
				top.keys[tok.String] = struct{}{}
				top.pending = tok.String
			}
		default:
			childPointer()
		}
	}
}
