// Package watch reports changes of a file on disk, collapsing bursts of
// file system events into single notifications.
//
//	w, err := watch.NewWatcher(settingsPath)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	for change := range w.Changes {
//	    // re-apply the settings document
//	}
package watch
