// Package glshape uploads and draws gshape meshes with OpenGL 4.6 and
// compiles the programs generated by package glsl. Without CGo every
// function returns an error.
package glshape
