// Package audit verifies the publishable properties of Markdown articles:
// the metadata header conforms to the recognized key contract, fenced code
// examples are well-formed, link destinations are non-empty, and the body
// renders to non-empty HTML. Checks report findings instead of failing so a
// single run surfaces every problem in a document.
package audit
