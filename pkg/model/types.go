package model

import internalmodel "github.com/goliatone/go-formdoc/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText      = internalmodel.FieldTypeText
	FieldTypeNumber    = internalmodel.FieldTypeNumber
	FieldTypeDate      = internalmodel.FieldTypeDate
	FieldTypeImage     = internalmodel.FieldTypeImage
	FieldTypeImageList = internalmodel.FieldTypeImageList
	FieldTypeList      = internalmodel.FieldTypeList
)

type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
type Source = internalmodel.Source
