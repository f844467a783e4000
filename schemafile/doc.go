// Package schemafile loads declarative schema definitions from YAML and
// builds them into registered schema definitions.
//
// A schema file is the authoritative, human-reviewed definition set:
//
//	version: "1"
//	schemas:
//	  - name: camelot.KnightSchema
//	    fields:
//	      - name: name
//	        type: string
//	  - name: camelot.KingSchema
//	    bases: camelot.KnightSchema
//	    fields:
//	      - name: title
//	        type: string
//	      - name: born
//	        type: date
//	      - name: subjects
//	        type: nested
//	        schema: camelot.KnightSchema
//	        many: true
//
// Everything a filter accepts as "a name or a list of names" (bases,
// exclude, only) may be written either way. Getter and packer functions are
// code, not data, and cannot be expressed in a schema file; declare such
// fields with the schema builder instead.
package schemafile
