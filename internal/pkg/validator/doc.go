// Package validator checks struct tags on usecase inputs. Failures come back
// as V10ValidationError, a field-to-message map keyed by snake_case field
// names, which the router renders as the "error" object of a 422 response.
package validator
