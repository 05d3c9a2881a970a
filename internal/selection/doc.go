// Package selection holds the live selection, ordering and formatting state
// of an export session and the commands that change it.
//
// The user interface never writes to a State directly. Every action is a
// Command dispatched through the Controller that owns the state:
//
//	state := selection.NewState(lib.Tags, lib.Categories)
//	ctrl := selection.NewController(state, logger)
//
//	_ = ctrl.Dispatch(selection.ToggleTag{ID: 3})
//	_ = ctrl.Dispatch(selection.MoveTag{From: 4, To: 0})
//	if err := ctrl.Dispatch(selection.ToggleDetail{ID: model.DetailKey}); errors.Is(err, selection.ErrDetailLimit) {
//	    // four columns are already selected
//	}
//
// Loading a settings document goes through Controller.Restore so that it is
// applied atomically.
package selection
