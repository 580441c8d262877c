/*
Package fieldmodel implements a generic versioned field model for typed data
objects (records) that represent entries of a structured binary container.

We implement:

1. Record types, a static table of field descriptors per Go type, defined once
via DefineRecord.

2. Version filtering: the fields a record exposes depend on its requested
version, falling back to the type's recommended version.

3. Path access: reading and writing fields by dotted name, with type checks.
Segments may select a collection element, as in "Children[0].Name".

4. Change tracking: every record embeds an Element that holds a one-way dirty
flag and a change handler supplied by its owner.

5. Structural cloning with a new change handler.

6. Index fields resolved against an external reference table.

7. Rendering of a record tree into a human-readable diagnostic string.

# Technical Details

**Field descriptors.**
Each field has a name, a kind (scalar, nested record, or one of the collection
shapes), an optional version range, a display priority and an optional link to
a reference-table field of the same record. Accessors are typed closures, so no
struct reflection happens after a type is defined.

**Infrastructure fields.**
RequestedApiVersion, RecommendedApiVersion and ContentFields are declared on
every record type so that they can be read by path, but they never appear in
the visible field list.

**Ordering.**
Visible fields are sorted by priority ascending, then by name.

**Change propagation.**
A child's handler usually points at its parent (see HandlerFor), so a change
to a leaf marks every ancestor dirty up to the root. Dirty flags are never
cleared by this package.

**Concurrency.**
Record types and schemas are safe for concurrent use. Record trees assume a
single writer.
*/
package fieldmodel
