package database

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const dataMarker = ".btree.data."

// DataFileName is the data file of a tree built from gbk with subsequence length k and degree t.
func DataFileName(gbk string, k, degree int) string {
	return fmt.Sprintf("%s%s%d.%d", gbk, dataMarker, k, degree)
}

// ParseDataFileName recovers k and the degree from a name produced by DataFileName.
func ParseDataFileName(path string) (k, degree int, err error) {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, dataMarker)
	if idx < 0 {
		return 0, 0, fmt.Errorf("%q is not a b-tree data file name", base)
	}
	parts := strings.Split(base[idx+len(dataMarker):], ".")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q is not a b-tree data file name", base)
	}
	if k, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid subsequence length in %q: %w", base, err)
	}
	if degree, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid degree in %q: %w", base, err)
	}
	return k, degree, nil
}
