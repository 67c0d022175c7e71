package testing

import (
	"os"
	"path/filepath"
	"testing"
)

// WeatherARFF is the classic nominal weather dataset (14 rows)
const WeatherARFF = `% weather, nominal version
@relation weather

@attribute outlook {sunny,overcast,rainy}
@attribute temperature {hot,mild,cool}
@attribute humidity {high,normal}
@attribute windy {TRUE,FALSE}
@attribute play {yes,no}

@data
sunny,hot,high,FALSE,no
sunny,hot,high,TRUE,no
overcast,hot,high,FALSE,yes
rainy,mild,high,FALSE,yes
rainy,cool,normal,FALSE,yes
rainy,cool,normal,TRUE,no
overcast,cool,normal,TRUE,yes
sunny,mild,high,FALSE,no
sunny,cool,normal,FALSE,yes
rainy,mild,normal,FALSE,yes
sunny,mild,normal,TRUE,yes
overcast,mild,high,TRUE,yes
overcast,hot,normal,FALSE,yes
rainy,mild,high,TRUE,no
`

// AgesARFF has a numeric attribute for range rebuilding
const AgesARFF = `@relation ages

@attribute age numeric
@attribute smoker {yes,no}

@data
3,no
17,yes
25,yes
?,no
42,no
`

// WriteARFF writes content to dir/name.arff and returns the path without
// the .arff suffix, the way ceka expects input names.
func WriteARFF(t *testing.T, dir, name, content string) string {
	t.Helper()

	base := filepath.Join(dir, name)
	if err := os.WriteFile(base+".arff", []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return base
}

// ReadFile returns the contents of path or fails the test
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
