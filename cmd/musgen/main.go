package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/stylematch/core"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// If we're in the core subpackage, cd up to project root
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/stylematch/core"),
	)
	if err != nil {
		panic(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.Gender]())
	g.AddDefinedType(reflect.TypeFor[core.ID]())

	// Vectors are stored as raw 4-byte floats. The length check runs before
	// the slice is allocated.
	embedding := []typeops.SetOption{
		typeops.WithLenValidator("ValidateEmbeddingLength"),
		typeops.WithElem(typeops.WithNumEncoding(typeops.Raw)),
	}
	err = g.AddStruct(reflect.TypeFor[core.CatalogItem](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(embedding...),
		structops.WithField())
	if err != nil {
		panic(err)
	}

	// Unix micro timestamps, decoded as UTC
	opts := typeops.WithTimeUnit(typeops.MicroUTC)
	err = g.AddStruct(reflect.TypeFor[core.CatalogMeta](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(opts))
	if err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./core/catalog_mus.gen.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
