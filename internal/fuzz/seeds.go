package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, предел для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
}

// addTestdataSeeds добавляет все *.ast файлы из testdata в корне репозитория.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".ast" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

var builtinSeeds = []string{
	"",
	"#1\n_program\n",
	"#1\n_program\n  #1\n  _class\n    Main\n    Object\n    \"m.cl\"\n    (\n    )\n",
	// цикл наследования
	"#1\n_program\n  #1\n  _class\n    A\n    B\n    \"c.cl\"\n    (\n    )\n  #2\n  _class\n    B\n    A\n    \"c.cl\"\n    (\n    )\n",
	"#1\n_program\n  #1\n  _class\n    Main\n    IO\n    \"s.cl\"\n    (\n    #2\n    _method\n      main\n      SELF_TYPE\n      #3\n      _string\n        \"\\t\\001\\\\\"\n      : _no_type\n    )\n",
}
