// 18 Oct 2026
/*

consprep prepares PDB files for conservation based pocket scoring. It
writes the chains of a structure as fasta files, and it gets
alignments and conservation scores for each chain from HSSP files.

Usage:
 consprep [options] subcommand args...

Subcommands:
  pdbtofasta file_or_dir
	Write one fasta file per chain next to each PDB file. 1abc.pdb
	with chains A and B gives 1abcA.pdb.fasta and 1abcB.pdb.fasta.
	The names of the new files are printed.

  pickscoresfromhssp pdbfile pdbid hssp2fasta_script msa2conservation_script hssp_dir
	Unpack hssp_dir/pdbid.hssp.bz2, turn it into one alignment per
	chain, calculate conservation for each alignment and decide
	which alignment belongs to which chain of pdbfile. For each chain
	that matched, {base}{chain}.fasta.gz and {base}{chain}.hom.gz are
	written next to pdbfile. Exits with 1 if nothing matched.

  pickscores dir
	For each .pdb file in dir, look for score files like 1abcA.hom
	and say which chain they go with, as in
	    1abc.pdb A:A B:A C:B
	or "1abc.pdb -" if nothing fits.

  getproteinsize pdbfile
	Print the number of residues and atoms in the amino acid chains.

Flags:
  -l where
	Where to log. stdout, stderr (default), a file name which is
	appended to, or "" to throw it all away.
  -t duration
	Kill an external script if it runs longer than this, for example
	-t 10m. The default is to wait forever.

A chain goes with an alignment if the two sequences agree wherever
they overlap. X matches anything. If more than one alignment fits,
the one with the most identical residues wins, then the one closest
in length, then the one whose name sorts first. Chains with the same
sequence always get the same alignment.
*/
package main
