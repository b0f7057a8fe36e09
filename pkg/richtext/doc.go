// Package richtext bridges token markup and the editable tree used by
// interactive editors. Text stays editable while every field token becomes an
// atomic inline Field node carrying its attributes. Converting back always
// reads the current node attributes, so edits made through a field editor
// serialize on the next ToMarkup call, and untouched fields re-emit exactly the
// text they were parsed from.
package richtext
