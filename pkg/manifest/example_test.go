package manifest_test

import (
	"fmt"

	"github.com/matzehuels/orgdeps/pkg/manifest"
)

func ExampleExtract() {
	raw := []byte(`{
		"name": "web",
		"dependencies": {"react": "^18.2.0", "react-dom": "^18.2.0"},
		"devDependencies": {"typescript": "^5.4.0", "react": "^18.2.0"}
	}`)

	set, err := manifest.Extract(raw)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for name := range set.All() {
		fmt.Println(name)
	}
	// Output:
	// react
	// react-dom
	// typescript
}

func ExampleExtractResult() {
	set, _ := manifest.ExtractResult(manifest.Absent())
	fmt.Println(set.Len())
	// Output: 0
}
