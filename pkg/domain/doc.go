/*
Package domain contains the core domain model shared by every layer of
Lectern: the validation limits for identifiers and payloads, and the error
taxonomy surfaced to callers.

It is kept pure and free of external dependencies like I/O or transport
concerns, following Hexagonal Architecture principles.

# Key Entities

  - Limits: configurable bounds for session/user identifiers and page size.
  - ValidationError: client-caused input rejection carrying field and reason.
  - ErrSessionNotFound: sentinel for operations naming an unknown session.
*/
package domain
