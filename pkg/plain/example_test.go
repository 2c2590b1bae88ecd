package plain_test

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/graphviewer/pkg/plain"
)

func ExampleSetRawProperty() {
	rec, err := plain.SetRawProperty(nil, "color", "red")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	rec, _ = plain.SetRawProperty(rec, "text", "Hello")

	data, _ := json.Marshal(rec)
	fmt.Println(string(data))
	// Output:
	// {"attributes":{"color":"red","text":{"content":"Hello"}}}
}
