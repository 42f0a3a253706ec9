package utilities

import (
	"encoding/json"
	"fmt"
	"os"
)

type JsonConfigObj[T any] interface {
	ConvertToDomain() T
}

// ReadConfig loads a JSON config file and maps it into its domain form
// through the config type's ConvertToDomain.
func ReadConfig[T JsonConfigObj[U], U any](file string) (U, error) {
	var empty U

	fileContent, err := os.ReadFile(file)
	if err != nil {
		return empty, fmt.Errorf("reading config file %s: %w", file, err)
	}

	var config T
	if err := json.Unmarshal(fileContent, &config); err != nil {
		return empty, fmt.Errorf("parsing config file %s: %w", file, err)
	}

	return config.ConvertToDomain(), nil
}

func ConvertJsonArrayToDomain[T JsonConfigObj[U], U any](jsonArray []T) []U {
	domainArray := make([]U, 0, len(jsonArray))
	for _, item := range jsonArray {
		domainArray = append(domainArray, item.ConvertToDomain())
	}
	return domainArray
}
