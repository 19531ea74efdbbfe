// Package exprs evaluates action conditions and template guards. Expressions
// use HCL syntax and are evaluated against a cty variable space projected
// from the execution context: project.*, params.*, and env.*.
package exprs
