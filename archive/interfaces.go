package archive

// Saver is the output half of a type's separate save/load method pair.
type Saver interface{ Save(a *Archive) error }

// Loader is the input half of the save/load pair.
type Loader interface{ Load(a *Archive) error }

// Serializer services both directions from one method, branching on
// a.IsInput() where the encoding is asymmetric.
type Serializer interface{ Serialize(a *Archive) error }

// InlineBase serializes base/embedded state into the CURRENT object
// scope instead of opening a nested one. Call it from within a type's
// Serialize/Save/Load method, passing a closure that submits the
// base's fields via Value:
//
//	func (d *Dog) Serialize(a *archive.Archive) error {
//	    if err := archive.InlineBase(a, d.Animal.Serialize); err != nil {
//	        return err
//	    }
//	    return archive.Value(a, "breed", &d.Breed)
//	}
func InlineBase(a *Archive, fn func(a *Archive) error) error {
	return fn(a)
}
