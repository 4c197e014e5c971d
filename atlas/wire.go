package atlas

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical encoding so the same atlas always produces
// the same bytes, which makes exports diffable.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("atlas: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes an Atlas to CBOR bytes.
func Marshal(a *Atlas) ([]byte, error) {
	return cborEncMode.Marshal(a)
}

// Unmarshal deserializes an Atlas from CBOR bytes.
func Unmarshal(data []byte) (*Atlas, error) {
	var a Atlas
	if err := cbor.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("atlas: unmarshal: %w", err)
	}
	return &a, nil
}
