package hssp

var ChainKey = chainKey
