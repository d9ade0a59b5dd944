package ontology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/model"
)

func loadBuiltin(t *testing.T) *Ontology {
	t.Helper()
	o, err := Load(Options{
		Whitelist:  []string{"schema", "dbpedia"},
		UseBuiltin: true,
	}, zap.NewNop())
	require.NoError(t, err)
	return o
}

func TestBuiltinOntologyIsValid(t *testing.T) {
	o := loadBuiltin(t)

	assert.Contains(t, o.Classes, "schema:Person")
	assert.Contains(t, o.Classes, "schema:Thing")
	assert.Contains(t, o.Relations, "schema:worksFor")

	valid, issues := Validate(o)
	assert.True(t, valid)
	assert.Empty(t, issues)
}

func TestLoadCustomOntologyMergedByNamespace(t *testing.T) {
	dir := t.TempDir()
	src := `namespace: medizin
namespace_uri: http://example.org/medizin/
classes:
  Arzt:
    parent: "schema:Person"
    aliases:
      - Doktor
    properties:
      - fachgebiet
relations:
  behandelt:
    domain:
      - Arzt
    range:
      - "schema:Person"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "medizin.yaml"), []byte(src), 0o644))

	o, err := Load(Options{
		Dir:        dir,
		Whitelist:  []string{"schema"},
		UseBuiltin: true,
	}, zap.NewNop())
	require.NoError(t, err)

	arzt, ok := o.Classes["medizin:Arzt"]
	require.True(t, ok)
	assert.Equal(t, "schema:Person", arzt.Parent)

	behandelt, ok := o.Relations["medizin:behandelt"]
	require.True(t, ok)
	assert.Equal(t, []string{"medizin:Arzt"}, behandelt.Domain)
}

func TestCycleDetectionNamesClass(t *testing.T) {
	o := newOntology(nil)
	o.addClass(&model.OntologyClass{Name: "A", Namespace: "x", Parent: "x:B"})
	o.addClass(&model.OntologyClass{Name: "B", Namespace: "x", Parent: "x:C"})
	o.addClass(&model.OntologyClass{Name: "C", Namespace: "x", Parent: "x:A"})

	valid, issues := Validate(o)
	assert.False(t, valid)
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0], "inheritance cycle")
	assert.Contains(t, issues[0], "x:")
}

func TestUnknownParentRejectedUnlessWhitelisted(t *testing.T) {
	o := newOntology(nil)
	o.addClass(&model.OntologyClass{Name: "A", Namespace: "x", Parent: "y:Missing"})
	valid, issues := Validate(o)
	assert.False(t, valid)
	assert.Contains(t, issues[0], "y:Missing")

	o = newOntology([]string{"y"})
	o.addClass(&model.OntologyClass{Name: "A", Namespace: "x", Parent: "y:Missing"})
	valid, _ = Validate(o)
	assert.True(t, valid)
}

func TestBrokenRelationReferences(t *testing.T) {
	o := newOntology(nil)
	o.addClass(&model.OntologyClass{Name: "A", Namespace: "x"})
	o.addRelation(&model.OntologyRelation{
		Name: "r", Namespace: "x",
		Domain:  []string{"x:A"},
		Range:   []string{"x:Nowhere"},
		Inverse: "x:missing",
	})

	valid, issues := Validate(o)
	assert.False(t, valid)
	assert.Len(t, issues, 2)
}

func TestLoadFailsFastOnInvalidOntology(t *testing.T) {
	dir := t.TempDir()
	src := `namespace: broken
classes:
  A:
    parent: B
  B:
    parent: A
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(src), 0o644))

	_, err := Load(Options{Dir: dir}, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOntology)
}

func TestIsSubclassOf(t *testing.T) {
	o := loadBuiltin(t)

	assert.True(t, o.IsSubclassOf("schema:Person", "schema:Thing"))
	assert.True(t, o.IsSubclassOf("schema:Person", "schema:Person"))
	assert.False(t, o.IsSubclassOf("schema:Thing", "schema:Person"))
	assert.False(t, o.IsSubclassOf("schema:Person", "schema:Organization"))
}

func TestClassForLabelResolvesNERLabels(t *testing.T) {
	o := loadBuiltin(t)

	c := o.ClassForLabel("ORG")
	require.NotNil(t, c)
	assert.Equal(t, "Organization", c.Name)

	c = o.ClassForLabel("PERSON")
	require.NotNil(t, c)
	assert.Equal(t, "Person", c.Name)

	assert.Nil(t, o.ClassForLabel("NO_SUCH_LABEL"))
}

func TestWriteExampleLoads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	require.NoError(t, WriteExample("demo", path))

	o, err := Load(Options{
		Dir:        dir,
		Whitelist:  []string{"schema"},
		UseBuiltin: true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, o.Classes, "demo:Fachbereich")
	assert.Contains(t, o.Relations, "demo:leitet")
}
