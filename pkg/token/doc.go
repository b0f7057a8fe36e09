// Package token defines the placeholder grammar embedded in document markup and
// the extractor that recovers typed fields from it.
//
// The canonical serialization is the double-brace token:
//
//	{{<id>:<type>}}
//	{{<id>:<type>:label:<text>|placeholder:<text>|format:<kind>|optional}}
//
// The inline-tag form emitted by rich-text widgets is read as well:
//
//	<field-node id="client" label="Client" type="text"></field-node>
//
// Portuguese type names written by older templates (texto, numero, data, imagem,
// lista_imagens, lista) are accepted as aliases and normalised to the English
// kinds. Malformed tokens never produce errors; they stay literal text.
package token
