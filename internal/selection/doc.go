// Package selection holds the car selection state for a carbook session.
//
// # Overview
//
// A Selection accumulates the storefront wizard's choices: city, then brand,
// model and fuel. Each name field has a paired display image (brand logo,
// model image, fuel image) that is always set together with it.
//
// # State Machine
//
// Reduce is a pure function from (Selection, Action) to Selection. The action
// set is closed:
//
//   - SetCity, SetBrand, SetModel: set one step, leave the rest alone
//   - SetFuel: terminal wizard step, forces IsComplete
//   - SetCompleteData: merges a Partial and forces IsComplete
//   - LoadFromStore: replaces the whole state (no merge)
//   - Clear: back to the zero Selection
//   - MarkComplete, ResetCompletion: toggle the flag only
//
// Any other Action value, including nil, is a no-op. Reduce never validates
// input; callers (see package wizard) do.
//
// # Container
//
// Container is the session-scoped holder. It is not a global: the app builds
// one per session and passes it to the synchronizer, the refetch trigger and
// the UI.
//
//	c := selection.NewContainer(selection.Selection{})
//	unsub := c.Subscribe(func(prev, next selection.Selection) { ... })
//	defer unsub()
//	c.Dispatch(selection.SetCity{City: "Pune"})
//
// Dispatches are applied one at a time in call order. Listeners are invoked
// synchronously after the state is updated, outside the container lock.
//
// # Derived Views
//
// Consumers that fetch prices use:
//
//   - Fingerprint: "no-car-selected" until complete, then
//     "{brand}-{model}-{fuel}-{city}"
//   - QueryParams / EncodeQuery: ordered brand, model, fuel, city pairs with
//     absent fields omitted
//   - PricingContext: "{brand} {model} ({fuel})" or not ok
//
// # JSON Form
//
// The JSON tags match the consolidated record written by earlier app
// versions, so persisted data from those versions loads unchanged.
package selection
