package treesitter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
)

func TestParser_Person(t *testing.T) {
	path := filepath.Join("testdata", "Person.java")
	src, err := os.ReadFile(path)
	require.NoError(t, err)

	tree, err := NewParser().Parse(path, src)
	require.NoError(t, err)

	assert.Equal(t, "org.samples", tree.Package)
	assert.Equal(t, []string{"java.util.List", "java.util.Map"}, tree.Imports)
	assert.Equal(t, []string{"Person", "Person.Address", "Person.Greeter"}, tree.Types)

	expected := []struct {
		signature string
		owner     string
		rng       string
	}{
		{"Person()", "Person", "14:5-16:5"},
		{"Person(String, int)", "Person", "18:5-21:5"},
		{"getFirstName()", "Person", "23:5-25:5"},
		{"getAge(int)", "Person", "27:5-29:5"},
		{"<T> getAge(int, T)", "Person", "31:5-33:5"},
		{"<T> getAge(int, T[])", "Person", "35:5-39:5"},
		{"<T> getAge(int, List<T>)", "Person", "41:5-43:5"},
		{"<K, V> getAge(int, Map<K, V>)", "Person", "45:5-47:5"},
		{"<T> collect(String, T...)", "Person", "49:5-52:5"},
		{"sizes(int[][])", "Person", "54:5-54:68"},
		{"Address(String)", "Person.Address", "59:9-59:56"},
		{"getFirstName()", "Person.Address", "61:9-63:9"},
		{"greet(Person)", "Person.Greeter", "67:9-67:36"},
		{"greet(Person, String)", "Person.Greeter", "69:9-71:9"},
	}

	require.Len(t, tree.Declarations, len(expected))
	for i, want := range expected {
		decl := tree.Declarations[i]
		assert.Equal(t, want.signature, decl.Signature(), "declaration %d", i)
		assert.Equal(t, want.owner, decl.Owner, "declaration %d", i)
		require.NotNil(t, decl.Range)
		assert.Equal(t, want.rng, decl.Range.String(), "declaration %d", i)
	}

	assert.Equal(t, models.ConstructorDeclaration, tree.Declarations[0].Kind)
	assert.Equal(t, models.MethodDeclaration, tree.Declarations[2].Kind)
}

func TestParser_RecordsAndEnums(t *testing.T) {
	src := `package shapes;

enum Color {
    RED {
        String code() { return "R"; }
    };

    String code() { return "?"; }
}

record Point(int x, int y) {
    Point {
        if (x < 0) throw new IllegalArgumentException();
    }
}

@interface Marker {
    String value() default "";
}
`
	tree, err := NewParser().Parse("Shapes.java", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"Color", "Point", "Marker"}, tree.Types)
	require.Len(t, tree.Declarations, 4)

	assert.Equal(t, "Color.RED", tree.Declarations[0].Owner)
	assert.Equal(t, "Color", tree.Declarations[1].Owner)

	compact := tree.Declarations[2]
	assert.Equal(t, "Point(int, int)", compact.Signature())
	assert.Equal(t, models.ConstructorDeclaration, compact.Kind)
	assert.Equal(t, "12:5-14:5", compact.Range.String())

	assert.Equal(t, "value()", tree.Declarations[3].Signature())
}

func TestParser_SyntaxError(t *testing.T) {
	_, err := NewParser().ParseContext(context.Background(), "Broken.java", []byte("class Broken {\n  void m( {\n}\n"))
	require.Error(t, err)

	var syntaxErr *errors.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, BackendName, syntaxErr.Parser)
	assert.Equal(t, "Broken.java", syntaxErr.Location().File)
	assert.Positive(t, syntaxErr.Location().Line)
}
