package types

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}

	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)

	return
}

// CopyBytesList returns a deep copy of a list of byte slices.
func CopyBytesList(list [][]byte) [][]byte {
	if list == nil {
		return nil
	}

	copied := make([][]byte, len(list))
	for i, b := range list {
		copied[i] = CopyBytes(b)
	}

	return copied
}
