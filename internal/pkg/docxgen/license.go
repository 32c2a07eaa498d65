package docxgen

import (
	"fmt"
	"os"
	"strings"

	"github.com/unidoc/unioffice/common/license"
)

func init() {
	// Получаем ключ из переменной окружения
	licenseKey := os.Getenv("UNIDOC_LICENSE_API_KEY")
	if licenseKey == "" {
		// Для локальной разработки можно использовать файл с ключом
		possiblePaths := []string{
			".unidoc.key",
			"../../../.unidoc.key",
		}

		for _, path := range possiblePaths {
			data, err := os.ReadFile(path)
			if err == nil {
				licenseKey = strings.TrimSpace(string(data))
				break
			}
		}
	}

	if licenseKey == "" {
		fmt.Println("Warning: UniDoc license key not found. Some features may be limited.")
		return
	}

	if err := license.SetMeteredKey(licenseKey); err != nil {
		fmt.Printf("Warning: Error loading UniDoc license: %v\n", err)
	}
}
