//go:build !windows

package registry

func setValue(Root, string, string, any, ValueKind) (WriteResult, error) {
	return WriteResult{}, ErrUnsupported
}

func getString(Root, string, string) (string, bool, error) {
	return "", false, ErrUnsupported
}
