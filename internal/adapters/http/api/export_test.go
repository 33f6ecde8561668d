package api

// QueryError exposes queryError to the external test package.
var QueryError = queryError
