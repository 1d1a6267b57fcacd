package types

import (
	"fmt"
	"path"
	"strings"
)

// ObjectLocation identifies an object in a storage bucket
type ObjectLocation struct {
	Bucket string
	Key    string
}

func NewObjectLocation(bucket, key string) ObjectLocation {
	return ObjectLocation{Bucket: bucket, Key: key}
}

func (l ObjectLocation) String() string {
	return fmt.Sprintf("%s/%s", l.Bucket, l.Key)
}

func (l ObjectLocation) IsEmpty() bool {
	return l.Bucket == "" || l.Key == ""
}

// Dir returns the key without its final element ("" for keys at the bucket root)
func (l ObjectLocation) Dir() string {
	dir := path.Dir(l.Key)
	if dir == "." {
		return ""
	}
	return dir
}

// Ext returns the extension of the key, including the leading dot
func (l ObjectLocation) Ext() string {
	return path.Ext(l.Key)
}

// Name returns the final element of the key with its extension removed
func (l ObjectLocation) Name() string {
	base := path.Base(l.Key)
	return strings.TrimSuffix(base, path.Ext(base))
}
