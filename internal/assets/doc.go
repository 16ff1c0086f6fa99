// Package assets resolves the stylesheets of the HTML preview.
//
// A style is addressed by a bare name such as "default" and lives in a
// styles/{name}.css file. Built-in styles are compiled into the binary; a
// style directory on disk may add styles or override built-in ones:
//
//	{dir}/
//	└── styles/
//	    └── {name}.css
//
// Open stacks the directory ahead of the built-in styles. Directory reads
// go through an os.Root, so neither names nor symlinks can reach files
// outside it.
package assets
