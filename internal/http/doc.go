// Package http provides HTTP handlers and middleware for the room booking API.
//
// The router exposes the following endpoints:
//   - GET /rooms: lists the room catalog, each entry annotated with its
//     availability status computed at request time.
//   - GET /rooms/{id}: returns one room with its current status.
//   - GET /rooms/{id}/bookings?date=YYYY-MM-DD: lists a room's bookings for a
//     calendar day; without a date, the remainder of today.
//   - POST /bookings: validates and creates a reservation. Body: the
//     `createBookingRequest` payload defined in booking_handler.go. Rejections
//     return 422 (or 409 for a conflict) with a machine-readable error code
//     and a Danish message.
//   - GET /bookings?user_id=...&include_past=true: lists a user's bookings.
//   - PATCH /bookings/{id}: moves an existing booking to a new time slot.
//   - DELETE /bookings/{id}: cancels a booking.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
