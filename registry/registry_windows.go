//go:build windows

package registry

import (
	"errors"
	"fmt"
	"io/fs"

	winreg "golang.org/x/sys/windows/registry"
)

var rootKeys = map[Root]winreg.Key{
	LocalMachine:  winreg.LOCAL_MACHINE,
	CurrentUser:   winreg.CURRENT_USER,
	ClassesRoot:   winreg.CLASSES_ROOT,
	Users:         winreg.USERS,
	CurrentConfig: winreg.CURRENT_CONFIG,
}

func setValue(root Root, path, name string, value any, kind ValueKind) (WriteResult, error) {
	result := WriteResult{
		KeyPath:  root.Path() + `\` + path,
		RootPath: root.Path(),
	}

	key, _, err := winreg.CreateKey(rootKeys[root], path, winreg.SET_VALUE|winreg.CREATE_SUB_KEY)
	if err != nil {
		return result, mapErr(fmt.Errorf("create key %s: %w", result.KeyPath, err))
	}
	defer key.Close()

	switch kind {
	case String:
		s, ok := value.(string)
		if !ok {
			return result, fmt.Errorf("value for %s must be a string, got %T", name, value)
		}
		err = key.SetStringValue(name, s)
	case ExpandString:
		s, ok := value.(string)
		if !ok {
			return result, fmt.Errorf("value for %s must be a string, got %T", name, value)
		}
		err = key.SetExpandStringValue(name, s)
	case DWord:
		v, ok := toUint64(value)
		if !ok {
			return result, fmt.Errorf("value for %s must be an unsigned integer, got %T", name, value)
		}
		err = key.SetDWordValue(name, uint32(v))
	case QWord:
		v, ok := toUint64(value)
		if !ok {
			return result, fmt.Errorf("value for %s must be an unsigned integer, got %T", name, value)
		}
		err = key.SetQWordValue(name, v)
	default:
		return result, fmt.Errorf("unsupported value kind %d", kind)
	}
	if err != nil {
		return result, mapErr(fmt.Errorf("set %s under %s: %w", name, result.KeyPath, err))
	}
	return result, nil
}

func getString(root Root, path, name string) (string, bool, error) {
	key, err := winreg.OpenKey(rootKeys[root], path, winreg.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, winreg.ErrNotExist) {
			return "", false, nil
		}
		return "", false, mapErr(err)
	}
	defer key.Close()

	value, _, err := key.GetStringValue(name)
	if err != nil {
		if errors.Is(err, winreg.ErrNotExist) {
			return "", false, nil
		}
		return "", false, mapErr(err)
	}
	return value, true, nil
}

func toUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint32:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	}
	return 0, false
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return err
}
