package app

/*
#cgo pkg-config: gtk+-3.0
#include <stdlib.h>
#include <gtk/gtk.h>
#include <gdk/gdk.h>

#ifdef GDK_WINDOWING_X11
#include <gdk/gdkx.h>
#endif

// X11 window id for WINDOWID; 0 on other display servers.
static unsigned long window_xid(GdkWindow *window) {
#ifdef GDK_WINDOWING_X11
    if (window != NULL && GDK_IS_X11_WINDOW(window)) {
        return (unsigned long)gdk_x11_window_get_xid(window);
    }
#endif
    return 0;
}

static void window_set_urgency(GtkWindow *window, int urgent) {
    gtk_window_set_urgency_hint(window, urgent ? TRUE : FALSE);
}

static void window_set_role(GtkWindow *window, const char *role) {
    gtk_window_set_role(window, role);
}

static void display_beep(void) {
    GdkDisplay *display = gdk_display_get_default();
    if (display != NULL) {
        gdk_display_beep(display);
    }
}

// Swap the window's cursor for the named blank cursor, or back to the
// inherited one.
static void window_set_cursor_hidden(GdkWindow *window, int hidden) {
    if (window == NULL) {
        return;
    }
    if (!hidden) {
        gdk_window_set_cursor(window, NULL);
        return;
    }
    GdkCursor *cursor = gdk_cursor_new_from_name(gdk_window_get_display(window), "none");
    gdk_window_set_cursor(window, cursor);
    if (cursor != NULL) {
        g_object_unref(cursor);
    }
}
*/
import "C"

import (
	"unsafe"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

// windowXID returns the toplevel's X11 window id, or 0 on other display
// servers and before the window is realized.
func windowXID(win *gtk.ApplicationWindow) uint64 {
	gdkWin, err := win.GetWindow()
	if err != nil || gdkWin == nil {
		return 0
	}
	return uint64(C.window_xid((*C.GdkWindow)(unsafe.Pointer(gdkWin.Native()))))
}

// setUrgencyHint raises or clears the window manager's urgency flag.
func setUrgencyHint(win *gtk.ApplicationWindow, urgent bool) {
	flag := C.int(0)
	if urgent {
		flag = 1
	}
	C.window_set_urgency((*C.GtkWindow)(unsafe.Pointer(win.Native())), flag)
}

// setWindowRole tags the window for session managers and window
// manager rules.
func setWindowRole(win *gtk.ApplicationWindow, role string) {
	cRole := C.CString(role)
	defer C.free(unsafe.Pointer(cRole))
	C.window_set_role((*C.GtkWindow)(unsafe.Pointer(win.Native())), cRole)
}

// displayBeep rings the display's bell.
func displayBeep() {
	C.display_beep()
}

// setCursorHidden hides or restores the pointer over the given surface.
func setCursorHidden(gdkWin *gdk.Window, hidden bool) {
	flag := C.int(0)
	if hidden {
		flag = 1
	}
	C.window_set_cursor_hidden((*C.GdkWindow)(unsafe.Pointer(gdkWin.Native())), flag)
}
