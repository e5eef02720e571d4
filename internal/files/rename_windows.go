//go:build windows

package files

import "golang.org/x/sys/windows"

func renameAtomic(oldPath, newPath string) error {
	oldP, err := windows.UTF16PtrFromString(oldPath)
	if err != nil {
		return err
	}
	newP, err := windows.UTF16PtrFromString(newPath)
	if err != nil {
		return err
	}
	return windows.MoveFileEx(oldP, newP, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}

func isReparsePoint(path string) (bool, error) {
	attrs, err := windows.GetFileAttributes(windows.StringToUTF16Ptr(path))
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0, nil
}
