// Package source locates mods inside a game installation and reads map files
// out of them.
//
// A mod lives under <game>/Mods either as a directory or as a zip archive.
// It is found by file name first and then by the Name declared in the
// everest.yaml manifest at the mod root, so both
//
//	inst.OpenMod("MyCollab")      // Mods/MyCollab or Mods/MyCollab.zip
//	inst.OpenMod("MyCollab2024")  // any mod whose everest.yaml says Name: MyCollab2024
//
// resolve. Maps are read from Maps/<map>.bin inside the mod.
package source
