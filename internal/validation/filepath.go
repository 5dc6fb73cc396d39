package validation

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"
)

const (
	// MaxFilePathLen максимальная длина пути ноутбука в байтах
	MaxFilePathLen = 1024

	// NotebookExt расширение файла ноутбука
	NotebookExt = ".ipynb"
)

// ValidateFilePath проверяет путь ноутбука, к которому подключается сессия.
// Путь должен быть валидным UTF-8, не содержать управляющих символов и
// сегментов "..", и заканчиваться на .ipynb.
func ValidateFilePath(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	if len(filePath) > MaxFilePathLen {
		return fmt.Errorf("file path must not exceed %d bytes", MaxFilePathLen)
	}

	if !utf8.ValidString(filePath) {
		return fmt.Errorf("file path must be valid UTF-8")
	}

	for _, r := range filePath {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("file path must not contain control characters")
		}
	}

	for _, segment := range strings.Split(strings.ReplaceAll(filePath, `\`, "/"), "/") {
		if segment == ".." {
			return fmt.Errorf("file path must not contain '..' segments")
		}
	}

	if path.Ext(filePath) != NotebookExt || path.Base(filePath) == NotebookExt {
		return fmt.Errorf("file path must name a %s file", NotebookExt)
	}

	return nil
}
