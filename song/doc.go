// SPDX-License-Identifier: EPL-2.0

// Package song reads song manifests and watches them for changes.
//
// A manifest is a JSON document:
//
//	{
//	  "title": "Opener",
//	  "pitch": 0,
//	  "tracks": [
//	    {"id": "vox", "source": "stems/vox.wav", "volume": 90},
//	    {"id": "gtr", "source": "s3://stems/opener/gtr.ogg", "balance": -0.3,
//	     "muteRegions": [[12.5, 20]]}
//	  ]
//	}
//
// Volume defaults to 100. Mute regions are [start, end) pairs in seconds.
package song
