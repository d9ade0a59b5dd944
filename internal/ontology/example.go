package ontology

import (
	"fmt"
	"os"
)

// WriteExample writes a starter domain ontology to path that users can copy
// and extend. Classes inherit from the builtin schema.org base.
func WriteExample(namespace, path string) error {
	content := fmt.Sprintf(`# Domain ontology for namespace %q.
# Bare class names are qualified with this namespace; prefixed names
# (schema:, dbpedia:) reference external vocabularies.
namespace: %s
namespace_uri: http://autograph.local/%s/

classes:
  Fachbereich:
    parent: "schema:Organization"
    aliases:
      - Abteilung
      - Department
    properties:
      - name
      - leitung
    description: "A department inside an organization."

relations:
  leitet:
    domain:
      - "schema:Person"
    range:
      - Fachbereich
    aliases:
      - leads
      - manages
    description: "The person heading a department."
`, namespace, namespace, namespace)

	return os.WriteFile(path, []byte(content), 0o644)
}
