/*
Package blockaccess implements fixed-size block storage for index and
table structures. A store hands out blocks by integer id and persists them
through one of several backends: positional file I/O (direct), lazily
mapped file segments (mapped), or in-memory simulations (mem, bytearray)
used to test code that sits on top of block storage. Stores are opened
through the store package.
*/
package blockaccess
