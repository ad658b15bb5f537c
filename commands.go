package labelpix

// The toolbar commands of the main window.

import (
	"fmt"
	"strings"
)

// Command identifies a toolbar action.
type Command int

// The toolbar commands, in toolbar order.
const (
	UploadPhotos Command = iota
	UploadLabels
	SaveTable
	SaveYOLO
	SaveVOC
	UploadFolder
	UploadVideo
	EditMode
	DeleteSelections
	ResetLabels
	ShowSettings
	ShowHelp
)

// CommandInfo describes a toolbar action.
type CommandInfo struct {
	Command   Command
	Name      string
	Key       byte // Shortcut letter, used with Ctrl+Shift.
	Tip       string
	Checkable bool
	run       func(s *Session) string
}

// Shortcut is the keyboard shortcut of the command.
func (c CommandInfo) Shortcut() string {
	return "Ctrl+Shift+" + string(c.Key)
}

// commandTable lists the toolbar commands, indexed by Command.
var commandTable = []CommandInfo{
	{UploadPhotos, "Upload photos", 'O',
		"Select photos from a folder and add them to the photo list", false,
		func(s *Session) string {
			paths := s.chooser.OpenFiles()
			if len(paths) == 0 {
				return ""
			}
			s.UploadPhotos(paths)
			return s.status
		}},
	{UploadLabels, "Upload Labels", 'L', "Upload labels from csv, parquet", false,
		func(s *Session) string {
			path := s.chooser.OpenFile()
			if path == "" {
				return ""
			}
			_ = s.LoadTable(path)
			return s.status
		}},
	{SaveTable, "Save", 'S', "Save changes to csv or parquet", false,
		func(s *Session) string {
			path := s.chooser.SaveFile()
			if path == "" {
				return ""
			}
			_ = s.SaveTable(path)
			return s.status
		}},
	{SaveYOLO, "Save Yolo", 'Y', "Save changes to txt files with Yolo format", false,
		func(s *Session) string {
			s.SaveYOLO()
			return s.status
		}},
	{SaveVOC, "Save Voc", 'P', "Save changes to xml files in Pascal voc format", false,
		func(s *Session) string {
			s.SaveVOC()
			return s.status
		}},
	{UploadFolder, "Upload Photo Folder", 'F',
		"Open a folder containing photos and add them to the photo list", false,
		func(s *Session) string {
			dir := s.chooser.OpenDir()
			if dir == "" {
				return ""
			}
			_, _ = s.UploadFolder(dir)
			return s.status
		}},
	{UploadVideo, "Upload video", 'V',
		"Add a video and convert it to .png frames and add them to the photo list", false,
		func(s *Session) string {
			return s.setStatus("Video upload is not supported")
		}},
	{EditMode, "Edit Mode", 'R', "Activate editor mode", true,
		func(s *Session) string {
			return s.setStatus("Switched to %s mode", s.ToggleEditMode())
		}},
	{DeleteSelections, "Delete Selection(s)", 'D', "Delete all selections (checked items)", false,
		func(s *Session) string {
			s.DeleteSelections()
			return s.status
		}},
	{ResetLabels, "Reset", 'J', "Delete all labels in the current working folder", false,
		func(s *Session) string {
			s.ResetLabels()
			return s.status
		}},
	{ShowSettings, "Settings", 'A', "Display settings", false,
		func(s *Session) string {
			return s.setStatus("Display %dx%d, table format %s, %d label(s)",
				s.settings.Display.Width, s.settings.Display.Height, s.settings.TableFormat,
				s.catalog.Len())
		}},
	{ShowHelp, "Help", 'H', "Display help", false, nil}, // Run by Dispatch.
}

// Commands returns the toolbar commands in toolbar order.
func Commands() []CommandInfo {
	return append([]CommandInfo(nil), commandTable...)
}

// CommandByKey returns the command bound to the shortcut letter key.
func CommandByKey(key byte) (CommandInfo, bool) {
	for _, c := range commandTable {
		if c.Key == key {
			return c, true
		}
	}
	return CommandInfo{}, false
}

func helpText(cmds []CommandInfo) string {
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = fmt.Sprintf("%s: %s (%s)", c.Shortcut(), c.Name, c.Tip)
	}
	return strings.Join(lines, "\n")
}

// Dispatch runs a toolbar command and returns its status message. Commands that need a file choice
// are no-ops when the session has no chooser or the user cancels.
func (s *Session) Dispatch(cmd Command) string {
	if cmd < 0 || int(cmd) >= len(commandTable) {
		return s.setStatus("Unknown command %d", cmd)
	}
	if s.chooser == nil {
		switch cmd {
		case UploadPhotos, UploadLabels, SaveTable, UploadFolder:
			return ""
		}
	}
	if cmd == ShowHelp {
		return s.setStatus("%s", helpText(commandTable))
	}
	return commandTable[cmd].run(s)
}
