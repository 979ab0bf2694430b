// Package models defines the core domain models for Basket.
//
// # Models
//
//   - User: a registered account. Its public projection is Identity.
//   - Item: one entry on a user's grocery list.
//   - Friend: a directed relationship from an owner to another user.
//   - APILog: a record of one upstream chat completion call.
//
// # Design Principles
//
//  1. **Owner scoping**: every Item and Friend is keyed by the owning user's ID.
//  2. **Avoid circular references**: relationships use ID strings, never pointers.
//  3. **Validation lives with the model**: Item.Validate is shared by the server and the
//     client-side stores so both reject the same input.
package models
