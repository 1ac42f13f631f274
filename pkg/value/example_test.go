package value_test

import (
	"fmt"

	"github.com/matzehuels/visualizeme/pkg/value"
)

func ExampleParseJSON() {
	v, err := value.ParseJSON([]byte(`{"a":1,"b":[2,3]}`))
	if err != nil {
		panic(err)
	}
	fmt.Println(v.Keys(), value.TypeName(v.Get("b")))
	fmt.Println(string(value.MarshalIndent(v, "  ")))
	// Output:
	// [a b] array
	// {
	//   "a": 1,
	//   "b": [
	//     2,
	//     3
	//   ]
	// }
}

func ExamplePath_Key() {
	p := value.Path{value.KeySeg("skills"), value.IndexSeg(1)}
	fmt.Println(p.Key())
	fmt.Println(p.String())
	fmt.Println(value.Path{}.Key())
	// Output:
	// ["skills",1]
	// skills[1]
	// $root
}
