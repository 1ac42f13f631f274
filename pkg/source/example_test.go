package source_test

import (
	"fmt"

	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/value"
)

func ExampleParse() {
	res, err := source.Parse("export const site = { title: 'Home', tags: ['a'] };\n", source.ModeSourceLiteral)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(value.Marshal(res.Value)))
	fmt.Print(res.Metadata.Template)
	// Output:
	// {"site":{"title":"Home","tags":["a"]}}
	// export const site = __VISUALIZEME_site_20_50__;
}

func ExampleModeForFilename() {
	fmt.Println(source.ModeForFilename("profile.ts"))
	fmt.Println(source.ModeForFilename("profile.json"))
	// Output:
	// source-literal
	// json
}
