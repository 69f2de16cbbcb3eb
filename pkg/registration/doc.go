// Package registration holds the registration form controller: field values,
// touched state, schema-backed validation, the dial code/flag derived from the
// selected country, and the submit flow.
//
// Validation rules live in an embedded JSON Schema (registration.schema.json)
// compiled once per Validator. Country membership is checked against the
// option list the form was built with, since it depends on fetched data.
package registration
