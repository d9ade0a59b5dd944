package graph

const (
	SaveEntityNodeQuery = `
		MERGE (n:Entity {canonical_name: $canonical_name})
		ON CREATE SET n.uuid = $uuid, n.created_at = $created_at
		SET n.uri = $uri,
			n.entity_type = $entity_type,
			n.linked = $linked,
			n.confidence = $confidence,
			n.match_strategy = $match_strategy,
			n.source_catalog = $source_catalog,
			n.ontology_classes = $ontology_classes
		RETURN n.uuid AS uuid
	`

	SaveDocumentNodeQuery = `
		MERGE (d:Document {doc_id: $doc_id})
		ON CREATE SET d.uuid = $uuid, d.created_at = $created_at
		SET d.domain = $domain
		RETURN d.uuid AS uuid
	`

	SaveMentionEdgeQuery = `
		MATCH (d:Document {doc_id: $doc_id})
		MATCH (n:Entity {canonical_name: $canonical_name})
		MERGE (d)-[e:MENTIONS]->(n)
		SET e.mention_text = $mention_text,
			e.created_at = $created_at
		RETURN d.uuid AS uuid
	`

	SaveRelationEdgeQuery = `
		MATCH (source:Entity {canonical_name: $subject})
		MATCH (target:Entity {canonical_name: $object})
		MERGE (source)-[e:RELATES_TO {label: $label}]->(target)
		ON CREATE SET e.uuid = $uuid, e.created_at = $created_at
		SET e.confidence = $confidence,
			e.method = $method,
			e.evidence = $evidence,
			e.ontology_relation = $ontology_relation,
			e.doc_id = $doc_id
		RETURN e.uuid AS uuid
	`

	CountEntitiesQuery = `
		MATCH (n:Entity)
		RETURN count(n) AS count
	`

	CountRelationsQuery = `
		MATCH ()-[e:RELATES_TO]->()
		RETURN count(e) AS count
	`

	GetEntityByNameQuery = `
		MATCH (n:Entity {canonical_name: $canonical_name})
		RETURN n.uuid AS uuid, n.uri AS uri, n.entity_type AS entity_type,
			n.confidence AS confidence, n.source_catalog AS source_catalog
	`

	GetDocumentRelationsQuery = `
		MATCH (s:Entity)-[e:RELATES_TO {doc_id: $doc_id}]->(o:Entity)
		RETURN s.canonical_name AS subject, e.label AS label,
			o.canonical_name AS object, e.confidence AS confidence
	`
)
