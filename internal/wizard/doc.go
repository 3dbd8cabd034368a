// Package wizard holds the car selection flow: city, brand, model, fuel.
//
// Option lists (Cities, Brands, Models, Fuels) are static and match the
// storefront screens. Each Choose* step validates its input with
// go-playground/validator, resolves it against the lists (ignoring case) and
// dispatches into a selection.Container:
//
//   - ChooseCity: any non-empty name up to 64 characters
//   - ChooseBrand: must be in Brands, else ErrUnknownBrand
//   - ChooseModel: must be in the brand's list when it has one
//   - ChooseFuel: one of the six fuels; dispatches one SetCompleteData with
//     every field, which completes the selection
//
// Steps that run out of order return ErrStepOrder. NextStep tells a view
// which screen to show for a given selection.
package wizard
